package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/idstore"
)

// GetParamProps declares a cross-account/cross-region identifier read: at
// deploy time the handler assumes RoleName in the owning account/region and
// returns the value stored under Key there.
type GetParamProps struct {
	// OwnerAccountID and OwnerRegion locate the unit that published the value.
	OwnerAccountID string
	OwnerRegion    string
	// RoleName is assumed in the owning account; see GetParamRoleName.
	RoleName string
	// Partition of the owning account.
	Partition string
	// Key is the identifier-store path in the owning unit.
	Key idstore.Key
}

// GetParam is the declared pending read. Value resolves only at deploy time.
type GetParam struct {
	constructs.Construct
	resource awscdk.CustomResource
}

// NewGetParam declares the lookup. Precondition: the owning unit must have
// deployed and published the key before this unit deploys; a violated
// precondition surfaces as a deploy-time failure (role assumption denied or
// parameter not found), never at synthesis.
func NewGetParam(scope constructs.Construct, id string, props *GetParamProps) *GetParam {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "GetNetworkParamProvider", lambdaEntry("getparam"), assumeAnyRolePolicy())

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::GetNetworkSsmParameter"),
		Properties: &map[string]interface{}{
			"AssumeRoleArn": RoleArn(props.Partition, props.OwnerAccountID, props.RoleName),
			"Region":        props.OwnerRegion,
			"ParameterName": props.Key.String(),
		},
	})

	return &GetParam{Construct: node, resource: resource}
}

// Value returns the looked-up identifier as a deploy-time token.
func (g *GetParam) Value() *string {
	return g.resource.GetAttString(jsii.String("Value"))
}
