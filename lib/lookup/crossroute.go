package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// CrossAccountRouteProps declares a route created in another account's route
// table, used for the accepter side of cross-account VPC peering where a
// plain CfnRoute cannot reach. The handler assumes VpcPeeringRoleName in the
// route table's owning account and manages the route's full lifecycle.
type CrossAccountRouteProps struct {
	OwnerAccountID string
	OwnerRegion    string
	RoleName       string
	Partition      string

	RouteTableID *string
	// Exactly one destination form is set; prefix list wins when the caller
	// could supply both.
	DestinationCidrBlock    *string
	DestinationPrefixListID *string
	PeeringConnectionID     *string
}

type CrossAccountRoute struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewCrossAccountRoute(scope constructs.Construct, id string, props *CrossAccountRouteProps) *CrossAccountRoute {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "CrossAccountRouteProvider", lambdaEntry("crossroute"), assumeAnyRolePolicy())

	properties := map[string]interface{}{
		"AssumeRoleArn":          RoleArn(props.Partition, props.OwnerAccountID, props.RoleName),
		"Region":                 props.OwnerRegion,
		"RouteTableId":           props.RouteTableID,
		"VpcPeeringConnectionId": props.PeeringConnectionID,
	}
	if props.DestinationPrefixListID != nil {
		properties["DestinationPrefixListId"] = props.DestinationPrefixListID
	} else {
		properties["DestinationCidrBlock"] = props.DestinationCidrBlock
	}

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::CrossAccountRoute"),
		Properties:   &properties,
	})

	return &CrossAccountRoute{Construct: node, resource: resource}
}

// Resource exposes the custom resource for dependency edges.
func (c *CrossAccountRoute) Resource() awscdk.CustomResource { return c.resource }
