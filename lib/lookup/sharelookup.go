package lookup

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/scope"
)

// ShareName renders the resource-share naming convention, e.g.
// "MyTgw_TransitGatewayShare". The suffix vocabulary is part of the
// cross-unit contract.
func ShareName(resourceName string, kind scope.ResourceType) string {
	return fmt.Sprintf("%s_%sShare", resourceName, kind.ShareLabel())
}

// ShareItemLookupProps declares a same-region, cross-account lookup through
// an existing RAM resource share. No role is assumed; the handler relies on
// native share visibility from the consuming account.
type ShareItemLookupProps struct {
	// OwnerAccountID owns the share (and the shared resource).
	OwnerAccountID string
	// ResourceName is the configured name of the shared resource.
	ResourceName string
	// Kind selects both the share-name suffix and the RAM resource type
	// string used to find the item inside the share.
	Kind scope.ResourceType
}

// ShareItemLookup resolves a shared resource's id and ARN at deploy time.
type ShareItemLookup struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewShareItemLookup(scope_ constructs.Construct, id string, props *ShareItemLookupProps) *ShareItemLookup {
	ramType := props.Kind.RamResourceTypeString()
	if ramType == "" {
		panic(fmt.Sprintf("resource type %s has no RAM sharing primitive; use the SSM lookup path", props.Kind))
	}

	node := constructs.NewConstruct(scope_, jsii.String(id))

	provider := ensureProvider(node, "ShareItemLookupProvider", lambdaEntry("sharelookup"), []awsiam.PolicyStatement{
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Effect: awsiam.Effect_ALLOW,
			Actions: jsii.Strings(
				"ram:GetResourceShares",
				"ram:ListResources",
				"ec2:DescribeTransitGateways",
				"ec2:DescribeSubnets",
				"ec2:DescribeManagedPrefixLists",
				"ec2:DescribeIpamPools",
				"route53resolver:ListResolverRules",
				"route53resolver:ListFirewallRuleGroups",
			),
			Resources: jsii.Strings("*"),
		}),
	})

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::ResourceShareItemLookup"),
		Properties: &map[string]interface{}{
			"ShareName":       ShareName(props.ResourceName, props.Kind),
			"OwnerAccountId":  props.OwnerAccountID,
			"RamResourceType": ramType,
		},
	})

	return &ShareItemLookup{Construct: node, resource: resource}
}

// ItemID returns the shared resource's id as a deploy-time token.
func (s *ShareItemLookup) ItemID() *string {
	return s.resource.GetAttString(jsii.String("ResourceId"))
}

// ItemArn returns the shared resource's ARN as a deploy-time token.
func (s *ShareItemLookup) ItemArn() *string {
	return s.resource.GetAttString(jsii.String("ResourceArn"))
}
