package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// FirewallEndpointLookupProps declares selection of a network firewall
// endpoint id for one availability zone. The firewall's endpoint attribute
// lists "az:endpoint" pairs in no guaranteed order, so the zone match runs
// at deploy time against the resolved list.
type FirewallEndpointLookupProps struct {
	EndpointIds      *[]*string
	AvailabilityZone string
}

type FirewallEndpointLookup struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewFirewallEndpointLookup(scope constructs.Construct, id string, props *FirewallEndpointLookupProps) *FirewallEndpointLookup {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "FirewallEndpointProvider", lambdaEntry("fwendpoint"), nil)

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::NetworkFirewallEndpointLookup"),
		Properties: &map[string]interface{}{
			"EndpointIds":      props.EndpointIds,
			"AvailabilityZone": props.AvailabilityZone,
		},
	})

	return &FirewallEndpointLookup{Construct: node, resource: resource}
}

// EndpointID returns the matched endpoint id as a deploy-time token.
func (f *FirewallEndpointLookup) EndpointID() *string {
	return f.resource.GetAttString(jsii.String("EndpointId"))
}
