package lookup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// TgwAttachmentLookupProps declares a deploy-time search for a transit
// gateway attachment by the resource it attaches. VPN and peering
// attachments are created implicitly by their connection resource, so their
// ids are never published and must be described.
type TgwAttachmentLookupProps struct {
	Region string
	// AssumeRoleArn is empty when the attachment is visible in the deploying
	// account.
	AssumeRoleArn string

	TransitGatewayID *string
	// ResourceID is the attached resource (VPN connection, VPC, peering).
	ResourceID *string
	// ResourceType filters the describe call: "vpn", "vpc" or "peering".
	ResourceType string
}

type TgwAttachmentLookup struct {
	constructs.Construct
	resource awscdk.CustomResource
}

func NewTgwAttachmentLookup(scope constructs.Construct, id string, props *TgwAttachmentLookupProps) *TgwAttachmentLookup {
	node := constructs.NewConstruct(scope, jsii.String(id))

	provider := ensureProvider(node, "TgwAttachmentProvider", lambdaEntry("tgwattach"), assumeAnyRolePolicy())

	properties := map[string]interface{}{
		"Region":           props.Region,
		"TransitGatewayId": props.TransitGatewayID,
		"ResourceId":       props.ResourceID,
		"ResourceType":     props.ResourceType,
	}
	if props.AssumeRoleArn != "" {
		properties["AssumeRoleArn"] = props.AssumeRoleArn
	}

	resource := awscdk.NewCustomResource(node, jsii.String("Resource"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String("Custom::DescribeTgwAttachment"),
		Properties:   &properties,
	})

	return &TgwAttachmentLookup{Construct: node, resource: resource}
}

// AttachmentID returns the attachment id as a deploy-time token.
func (t *TgwAttachmentLookup) AttachmentID() *string {
	return t.resource.GetAttString(jsii.String("AttachmentId"))
}
