package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// NlbIpLookupProps declares resolution of a load balancer DNS name to its
// current IP addresses, used to register an ALB as IP targets of an NLB
// target group. When the target lives in another account, AssumeRoleArn
// names the NlbIpLookupRoleName role there.
type NlbIpLookupProps struct {
	DnsName       *string
	AssumeRoleArn string
}

type NlbIpLookup struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewNlbIpLookup(scope constructs.Construct, id string, props *NlbIpLookupProps) *NlbIpLookup {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "NlbIpLookupProvider", lambdaEntry("nlbiplookup"), assumeAnyRolePolicy())

	properties := map[string]interface{}{
		"DnsName": props.DnsName,
	}
	if props.AssumeRoleArn != "" {
		properties["AssumeRoleArn"] = props.AssumeRoleArn
	}

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::NlbIpAddressLookup"),
		Properties:   &properties,
	})

	return &NlbIpLookup{Construct: node, resource: resource}
}

// IpAddresses returns the resolved addresses as a deploy-time list token.
func (n *NlbIpLookup) IpAddresses() *[]*string {
	return awscdk.Token_AsList(n.resource.GetAtt(jsii.String("IpAddresses")), nil)
}
