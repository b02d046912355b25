package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// DomainListLookupProps declares a lookup of an AWS-managed DNS firewall
// domain list by its display name. Managed lists carry per-account ids that
// only exist at deploy time, so rule groups referencing one cannot be
// rendered without this.
type DomainListLookupProps struct {
	Region string
	Name   string
}

type DomainListLookup struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewDomainListLookup(scope constructs.Construct, id string, props *DomainListLookupProps) *DomainListLookup {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "DnsDomainListProvider", lambdaEntry("domainlist"), []awsiam.PolicyStatement{
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Effect:    awsiam.Effect_ALLOW,
			Actions:   jsii.Strings("route53resolver:ListFirewallDomainLists"),
			Resources: jsii.Strings("*"),
		}),
	})

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::DnsFirewallManagedDomainList"),
		Properties: &map[string]interface{}{
			"Region":         props.Region,
			"DomainListName": props.Name,
		},
	})

	return &DomainListLookup{Construct: node, resource: resource}
}

// ID returns the domain list id as a deploy-time token.
func (d *DomainListLookup) ID() *string {
	return d.resource.GetAttString(jsii.String("DomainListId"))
}
