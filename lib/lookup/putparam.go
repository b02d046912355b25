package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/idstore"
)

// ParamEntry is one key/value pair pushed into a remote identifier store.
type ParamEntry struct {
	Key   idstore.Key
	Value *string
}

// PutParamsProps declares push propagation: the handler assumes RoleName in
// the TARGET account/region and writes the entries into that unit's
// identifier store. Used when a remote unit needs a local value it cannot
// resolve itself, e.g. a peering accepter consuming the requester's ids.
type PutParamsProps struct {
	TargetAccountID string
	TargetRegion    string
	RoleName        string
	Partition       string
	Entries         []ParamEntry
}

// PutParams is fire-and-forget relative to this unit's synthesis: the writer
// does not observe downstream consumption of the pushed values.
type PutParams struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewPutParams(scope constructs.Construct, id string, props *PutParamsProps) *PutParams {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "PutNetworkParamProvider", lambdaEntry("putparam"), assumeAnyRolePolicy())

	parameters := make([]map[string]interface{}, 0, len(props.Entries))
	for _, entry := range props.Entries {
		parameters = append(parameters, map[string]interface{}{
			"Name":  entry.Key.String(),
			"Value": entry.Value,
		})
	}

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::PutNetworkSsmParameters"),
		Properties: &map[string]interface{}{
			"AssumeRoleArn": RoleArn(props.Partition, props.TargetAccountID, props.RoleName),
			"Region":        props.TargetRegion,
			"Parameters":    parameters,
		},
	})

	return &PutParams{Construct: node, resource: resource}
}

// Resource exposes the underlying custom resource for dependency edges.
func (p *PutParams) Resource() awscdk.CustomResource { return p.resource }
