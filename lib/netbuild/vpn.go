package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildCustomerGateways declares the customer gateways owned by this unit
// and their VPN connections. A connection terminates either on a transit
// gateway (resolved, possibly cross-account) or on the virtual private
// gateway of a VPC this unit owns.
func BuildCustomerGateways(ctx *Context, node constructs.Construct, built map[string]*VpcResources) {
	for _, cgwCfg := range ctx.Cfg.CustomerGateways {
		if ctx.MustAccountID(cgwCfg.Account) != ctx.Unit.AccountID || cgwCfg.Region != ctx.Unit.Region {
			continue
		}

		cgw := awsec2.NewCfnCustomerGateway(node, jsii.String("Cgw"+sanitizeID(cgwCfg.Name)), &awsec2.CfnCustomerGatewayProps{
			BgpAsn:    jsii.Number(float64(cgwCfg.Asn)),
			IpAddress: jsii.String(cgwCfg.IpAddress),
			Type:      jsii.String("ipsec.1"),
		})

		for _, vpnCfg := range cgwCfg.VpnConnections {
			buildVpnConnection(ctx, node, built, cgw, cgwCfg, vpnCfg)
		}
	}
}

func buildVpnConnection(ctx *Context, node constructs.Construct, built map[string]*VpcResources, cgw awsec2.CfnCustomerGateway, cgwCfg netconfig.CustomerGatewayConfig, vpnCfg netconfig.VpnConnectionConfig) {
	props := &awsec2.CfnVPNConnectionProps{
		CustomerGatewayId: cgw.Ref(),
		Type:              jsii.String("ipsec.1"),
		StaticRoutesOnly:  jsii.Bool(vpnCfg.StaticRoutesOnly),
	}

	switch {
	case vpnCfg.TransitGateway != "":
		props.TransitGatewayId = ctx.Resolve(ctx.TgwRef(vpnCfg.TransitGateway)).Value
	case vpnCfg.Vpc != "":
		res, ok := built[vpnCfg.Vpc]
		if !ok {
			failf("vpn connection %s: vpc %s is not owned by the customer gateway's unit", vpnCfg.Name, vpnCfg.Vpc)
		}
		if res.VirtualPrivateGateway == nil {
			failf("vpn connection %s: vpc %s has no virtual private gateway", vpnCfg.Name, vpnCfg.Vpc)
		}
		props.VpnGatewayId = res.VirtualPrivateGateway.Ref()
	default:
		failf("vpn connection %s terminates on neither a transit gateway nor a vpc", vpnCfg.Name)
	}

	if len(vpnCfg.TunnelSpecifications) > 0 {
		specs := make([]interface{}, 0, len(vpnCfg.TunnelSpecifications))
		for _, tunnel := range vpnCfg.TunnelSpecifications {
			spec := &awsec2.CfnVPNConnection_VpnTunnelOptionsSpecificationProperty{}
			if tunnel.PreSharedKey != "" {
				spec.PreSharedKey = jsii.String(tunnel.PreSharedKey)
			}
			if tunnel.TunnelInsideCidr != "" {
				spec.TunnelInsideCidr = jsii.String(tunnel.TunnelInsideCidr)
			}
			specs = append(specs, spec)
		}
		props.VpnTunnelOptionsSpecifications = &specs
	}

	vpn := awsec2.NewCfnVPNConnection(node, jsii.String("Vpn"+sanitizeID(vpnCfg.Name)), props)

	ref := scope.NetworkResourceRef{
		Kind:           scope.ResourceTypeVpnConnection,
		ResourceName:   vpnCfg.Name,
		OwnerAccountID: ctx.Unit.AccountID,
		OwnerRegion:    ctx.Unit.Region,
	}
	ctx.Register(ref, vpn.Ref())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), vpn.Ref())
}

// BuildVpnTgwAssociations runs in a transit gateway owner's unit and wires
// route table associations and propagations for VPN attachments. The
// attachment is created implicitly by the VPN connection in the customer
// gateway's account, so its id is described at deploy time rather than read
// from the store.
func BuildVpnTgwAssociations(ctx *Context, node constructs.Construct, res *TgwResources) {
	for _, cgwCfg := range ctx.Cfg.CustomerGateways {
		for _, vpnCfg := range cgwCfg.VpnConnections {
			if vpnCfg.TransitGateway != res.Config.Name {
				continue
			}
			if len(vpnCfg.RouteTableAssociations) == 0 && len(vpnCfg.RouteTablePropagations) == 0 {
				continue
			}

			vpnID := ctx.Resolve(scope.NetworkResourceRef{
				Kind:           scope.ResourceTypeVpnConnection,
				ResourceName:   vpnCfg.Name,
				OwnerAccountID: ctx.MustAccountID(cgwCfg.Account),
				OwnerRegion:    cgwCfg.Region,
			})

			attachment := lookup.NewTgwAttachmentLookup(node, "VpnAttach"+sanitizeID(vpnCfg.Name), &lookup.TgwAttachmentLookupProps{
				Region:           ctx.Unit.Region,
				TransitGatewayID: res.Tgw.Ref(),
				ResourceID:       vpnID.Value,
				ResourceType:     "vpn",
			})

			for _, rtbName := range vpnCfg.RouteTableAssociations {
				rtb, ok := res.RouteTables[rtbName]
				if !ok {
					failf("transit gateway %s: vpn %s associates route table %s which is not defined",
						res.Config.Name, vpnCfg.Name, rtbName)
				}
				awsec2.NewCfnTransitGatewayRouteTableAssociation(node,
					jsii.String(fmtID("VpnTgwAssoc", vpnCfg.Name, rtbName)),
					&awsec2.CfnTransitGatewayRouteTableAssociationProps{
						TransitGatewayAttachmentId: attachment.AttachmentID(),
						TransitGatewayRouteTableId: rtb.Ref(),
					})
			}
			for _, rtbName := range vpnCfg.RouteTablePropagations {
				rtb, ok := res.RouteTables[rtbName]
				if !ok {
					failf("transit gateway %s: vpn %s propagates route table %s which is not defined",
						res.Config.Name, vpnCfg.Name, rtbName)
				}
				awsec2.NewCfnTransitGatewayRouteTablePropagation(node,
					jsii.String(fmtID("VpnTgwProp", vpnCfg.Name, rtbName)),
					&awsec2.CfnTransitGatewayRouteTablePropagationProps{
						TransitGatewayAttachmentId: attachment.AttachmentID(),
						TransitGatewayRouteTableId: rtb.Ref(),
					})
			}
		}
	}
}
