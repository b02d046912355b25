package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
)

// BuildDxGateways declares Direct Connect gateways for this unit via SDK
// calls, since CloudFormation carries no native Direct Connect resources.
// DX gateways are global; they materialize in the owner's home-region unit
// and publish there.
func BuildDxGateways(ctx *Context, node constructs.Construct) {
	for _, dxCfg := range ctx.Cfg.DxGateways {
		if ctx.MustAccountID(dxCfg.Account) != ctx.Unit.AccountID || ctx.Cfg.HomeRegion != ctx.Unit.Region {
			continue
		}
		if ctx.Ledger.Contains(ctx.DxGatewayRef(dxCfg.Name)) {
			continue
		}

		gateway := customresources.NewAwsCustomResource(node, jsii.String("DxGw"+sanitizeID(dxCfg.Name)),
			&customresources.AwsCustomResourceProps{
				OnCreate: &customresources.AwsSdkCall{
					Service: jsii.String("DirectConnect"),
					Action:  jsii.String("createDirectConnectGateway"),
					Parameters: map[string]interface{}{
						"directConnectGatewayName": dxCfg.GatewayName,
						"amazonSideAsn":            dxCfg.Asn,
					},
					PhysicalResourceId: customresources.PhysicalResourceId_FromResponse(
						jsii.String("directConnectGateway.directConnectGatewayId")),
				},
				OnDelete: &customresources.AwsSdkCall{
					Service: jsii.String("DirectConnect"),
					Action:  jsii.String("deleteDirectConnectGateway"),
					Parameters: map[string]interface{}{
						"directConnectGatewayId": customresources.NewPhysicalResourceIdReference(),
					},
				},
				Policy: customresources.AwsCustomResourcePolicy_FromSdkCalls(&customresources.SdkCallsPolicyOptions{
					Resources: customresources.AwsCustomResourcePolicy_ANY_RESOURCE(),
				}),
			})

		gatewayID := gateway.GetResponseField(jsii.String("directConnectGateway.directConnectGatewayId"))

		ref := ctx.DxGatewayRef(dxCfg.Name)
		ctx.Register(ref, gatewayID)
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), gatewayID)

		for _, assoc := range dxCfg.TransitGatewayAssociations {
			buildDxTgwAssociation(ctx, node, dxCfg, assoc, gatewayID)
		}
	}
}

// buildDxTgwAssociation runs in the DX gateway owner's unit. A same-account
// transit gateway associates directly; a foreign one gets an association
// proposal the gateway owner must accept, mirroring the manual flow.
func buildDxTgwAssociation(ctx *Context, node constructs.Construct, dxCfg netconfig.DxGatewayConfig, assoc netconfig.DxTransitGatewayAssociationConfig, gatewayID *string) {
	tgwRef := ctx.TgwRef(assoc.Name)
	tgwID := ctx.Resolve(tgwRef)

	prefixes := lo.Map(assoc.AllowedPrefixes, func(cidr string, _ int) interface{} {
		return map[string]interface{}{"cidr": cidr}
	})

	action := "createDirectConnectGatewayAssociation"
	parameters := map[string]interface{}{
		"directConnectGatewayId":              gatewayID,
		"gatewayId":                           tgwID.Value,
		"addAllowedPrefixesToDirectConnectGateway": prefixes,
	}
	if ctx.MustAccountID(assoc.Account) != ctx.Unit.AccountID {
		action = "createDirectConnectGatewayAssociationProposal"
		parameters = map[string]interface{}{
			"directConnectGatewayId":              gatewayID,
			"directConnectGatewayOwnerAccount":    ctx.Unit.AccountID,
			"gatewayId":                           tgwID.Value,
			"addAllowedPrefixesToDirectConnectGateway": prefixes,
		}
	}

	customresources.NewAwsCustomResource(node, jsii.String(fmtID("DxGwAssoc", dxCfg.Name, assoc.Name)),
		&customresources.AwsCustomResourceProps{
			OnCreate: &customresources.AwsSdkCall{
				Service:            jsii.String("DirectConnect"),
				Action:             jsii.String(action),
				Parameters:         parameters,
				PhysicalResourceId: customresources.PhysicalResourceId_Of(jsii.String(dxCfg.Name + "-" + assoc.Name)),
			},
			Policy: customresources.AwsCustomResourcePolicy_FromSdkCalls(&customresources.SdkCallsPolicyOptions{
				Resources: customresources.AwsCustomResourcePolicy_ANY_RESOURCE(),
			}),
		})
}

// BuildDxTgwRouteTableWiring runs in a transit gateway owner's unit and
// declares route table associations and propagations for the DX attachment,
// described at deploy time like VPN attachments.
func BuildDxTgwRouteTableWiring(ctx *Context, node constructs.Construct, res *TgwResources) {
	for _, dxCfg := range ctx.Cfg.DxGateways {
		for _, assoc := range dxCfg.TransitGatewayAssociations {
			if assoc.Name != res.Config.Name {
				continue
			}
			if len(assoc.RouteTableAssociations) == 0 && len(assoc.RouteTablePropagations) == 0 {
				continue
			}

			gatewayID := ctx.Resolve(ctx.DxGatewayRef(dxCfg.Name))

			attachment := lookup.NewTgwAttachmentLookup(node, "DxAttach"+sanitizeID(dxCfg.Name), &lookup.TgwAttachmentLookupProps{
				Region:           ctx.Unit.Region,
				TransitGatewayID: res.Tgw.Ref(),
				ResourceID:       gatewayID.Value,
				ResourceType:     "direct-connect-gateway",
			})

			for _, rtbName := range assoc.RouteTableAssociations {
				rtb, ok := res.RouteTables[rtbName]
				if !ok {
					failf("transit gateway %s: dx gateway %s associates route table %s which is not defined",
						res.Config.Name, dxCfg.Name, rtbName)
				}
				awsec2.NewCfnTransitGatewayRouteTableAssociation(node,
					jsii.String(fmtID("DxTgwAssoc", dxCfg.Name, rtbName)),
					&awsec2.CfnTransitGatewayRouteTableAssociationProps{
						TransitGatewayAttachmentId: attachment.AttachmentID(),
						TransitGatewayRouteTableId: rtb.Ref(),
					})
			}
			for _, rtbName := range assoc.RouteTablePropagations {
				rtb, ok := res.RouteTables[rtbName]
				if !ok {
					failf("transit gateway %s: dx gateway %s propagates route table %s which is not defined",
						res.Config.Name, dxCfg.Name, rtbName)
				}
				awsec2.NewCfnTransitGatewayRouteTablePropagation(node,
					jsii.String(fmtID("DxTgwProp", dxCfg.Name, rtbName)),
					&awsec2.CfnTransitGatewayRouteTablePropagationProps{
						TransitGatewayAttachmentId: attachment.AttachmentID(),
						TransitGatewayRouteTableId: rtb.Ref(),
					})
			}
		}
	}
}
