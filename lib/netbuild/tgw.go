package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

// TgwResources tracks what the owning unit created for one transit gateway.
type TgwResources struct {
	Config      netconfig.TransitGatewayConfig
	Tgw         awsec2.CfnTransitGateway
	RouteTables map[string]awsec2.CfnTransitGatewayRouteTable
}

// BuildTransitGateway declares a transit gateway owned by this unit, its
// route tables, and its RAM share when share targets are configured. Ids
// publish under bare-name keys since transit gateways are not VPC-scoped.
func BuildTransitGateway(ctx *Context, node constructs.Construct, cfg netconfig.TransitGatewayConfig) *TgwResources {
	props := &awsec2.CfnTransitGatewayProps{
		// Route tables are managed explicitly, never the default ones.
		DefaultRouteTableAssociation: jsii.String("disable"),
		DefaultRouteTablePropagation: jsii.String("disable"),
	}
	if cfg.Asn != 0 {
		props.AmazonSideAsn = jsii.Number(float64(cfg.Asn))
	}
	if cfg.DnsSupport != "" {
		props.DnsSupport = jsii.String(cfg.DnsSupport)
	}
	if cfg.VpnEcmpSupport != "" {
		props.VpnEcmpSupport = jsii.String(cfg.VpnEcmpSupport)
	}

	tgw := awsec2.NewCfnTransitGateway(node, jsii.String("Tgw"+sanitizeID(cfg.Name)), props)

	ref := scope.NetworkResourceRef{
		Kind:           scope.ResourceTypeTransitGateway,
		ResourceName:   cfg.Name,
		OwnerAccountID: ctx.Unit.AccountID,
		OwnerRegion:    ctx.Unit.Region,
	}
	ctx.Register(ref, tgw.Ref())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), tgw.Ref())

	res := &TgwResources{
		Config:      cfg,
		Tgw:         tgw,
		RouteTables: make(map[string]awsec2.CfnTransitGatewayRouteTable),
	}

	for _, rtb := range cfg.RouteTables {
		cfnRtb := awsec2.NewCfnTransitGatewayRouteTable(node, jsii.String("TgwRtb"+sanitizeID(cfg.Name)+sanitizeID(rtb.Name)), &awsec2.CfnTransitGatewayRouteTableProps{
			TransitGatewayId: tgw.Ref(),
		})
		res.RouteTables[rtb.Name] = cfnRtb

		rtbRef := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeTgwRouteTable,
			VpcName:        cfg.Name,
			ResourceName:   rtb.Name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(rtbRef, cfnRtb.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), rtbRef), cfnRtb.Ref())
	}

	if !cfg.ShareTargets.Empty() {
		BuildResourceShare(ctx, node, cfg.Name, scope.ResourceTypeTransitGateway,
			tgwArn(ctx, tgw), netconfig.ShareAccounts(cfg.ShareTargets, ctx.OuAccounts))
	}

	return res
}

// BuildTgwStaticRoutes declares the static routes of the transit gateway's
// route tables. Attachment routes resolve the named attachment id; blackhole
// routes carry no attachment at all.
func BuildTgwStaticRoutes(ctx *Context, node constructs.Construct, res *TgwResources) {
	for _, rtb := range res.Config.RouteTables {
		cfnRtb := res.RouteTables[rtb.Name]

		for i, route := range rtb.Routes {
			// Prefix-list destinations use the dedicated reference resource;
			// CfnTransitGatewayRoute only carries literal CIDRs.
			if route.DestinationPrefixList != "" {
				pl := ctx.Resolve(ctx.PrefixListRef(route.DestinationPrefixList, ctx.Unit.AccountID, ctx.Unit.Region))
				props := &awsec2.CfnTransitGatewayRouteTablePrefixListReferenceProps{
					TransitGatewayRouteTableId: cfnRtb.Ref(),
					PrefixListId:               pl.Value,
				}
				switch {
				case route.Blackhole:
					props.Blackhole = jsii.Bool(true)
				case route.Attachment != nil:
					props.TransitGatewayAttachmentId = tgwRouteAttachmentID(ctx, res, route)
				default:
					failf("transit gateway %s: route table %s route %d is neither blackhole nor attachment",
						res.Config.Name, rtb.Name, i)
				}
				ref := awsec2.NewCfnTransitGatewayRouteTablePrefixListReference(node, jsii.String(fmtID("TgwPlRoute", res.Config.Name, rtb.Name, i)), props)
				ref.AddDependency(cfnRtb)
				continue
			}

			props := &awsec2.CfnTransitGatewayRouteProps{
				TransitGatewayRouteTableId: cfnRtb.Ref(),
			}
			if route.DestinationCidrBlock != "" {
				props.DestinationCidrBlock = jsii.String(route.DestinationCidrBlock)
			}

			switch {
			case route.Blackhole:
				props.Blackhole = jsii.Bool(true)
			case route.Attachment != nil:
				props.TransitGatewayAttachmentId = tgwRouteAttachmentID(ctx, res, route)
			default:
				failf("transit gateway %s: route table %s route %d is neither blackhole nor attachment",
					res.Config.Name, rtb.Name, i)
			}

			route_ := awsec2.NewCfnTransitGatewayRoute(node, jsii.String(fmtID("TgwRoute", res.Config.Name, rtb.Name, i)), props)
			route_.AddDependency(cfnRtb)
		}
	}
}

// tgwRouteAttachmentID resolves the attachment a static route points at,
// published by the attaching VPC's unit.
func tgwRouteAttachmentID(ctx *Context, res *TgwResources, route netconfig.TgwRouteEntryConfig) *string {
	attachRef := scope.NetworkResourceRef{
		VpcName:        route.Attachment.Name,
		Kind:           scope.ResourceTypeTgwAttachment,
		ResourceName:   res.Config.Name,
		OwnerAccountID: ctx.MustAccountID(route.Attachment.Account),
		OwnerRegion:    res.Config.Region,
	}
	return ctx.Resolve(attachRef).Value
}

// BuildTgwVpcAttachments declares this VPC's attachments to its configured
// transit gateways, publishing the attachment ids other units consume for
// association and propagation.
func BuildTgwVpcAttachments(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, attachCfg := range v.Config.TgwAttachmentConfigs() {
		subnetIDs := lo.Map(attachCfg.Subnets, func(name string, _ int) *string {
			subnet, ok := res.Subnets[name]
			if !ok {
				failf("vpc %s: tgw attachment %s references subnet %s which is not defined",
					v.Config.VpcName(), attachCfg.Name, name)
			}
			return subnet.Ref()
		})

		tgwID := ctx.Resolve(ctx.TgwRef(attachCfg.TransitGateway.Name))

		props := &awsec2.CfnTransitGatewayAttachmentProps{
			TransitGatewayId: tgwID.Value,
			VpcId:            res.Vpc.Ref(),
			SubnetIds:        &subnetIDs,
		}
		if attachCfg.Options != nil {
			options := &awsec2.CfnTransitGatewayAttachment_OptionsProperty{}
			if attachCfg.Options.ApplianceModeSupport != "" {
				options.ApplianceModeSupport = jsii.String(attachCfg.Options.ApplianceModeSupport)
			}
			if attachCfg.Options.DnsSupport != "" {
				options.DnsSupport = jsii.String(attachCfg.Options.DnsSupport)
			}
			if attachCfg.Options.Ipv6Support != "" {
				options.Ipv6Support = jsii.String(attachCfg.Options.Ipv6Support)
			}
			props.Options = options
		}

		attach := awsec2.NewCfnTransitGatewayAttachment(node, jsii.String("TgwAttach"+sanitizeID(attachCfg.Name)), props)
		res.TgwAttachments[attachmentMapKey(attachCfg.TransitGateway.Name, v)] = attach

		// The published ref names the VPC and the transit gateway; the
		// owning TGW unit reads it back to associate and propagate.
		ref := scope.NetworkResourceRef{
			VpcName:        v.Config.VpcName(),
			Kind:           scope.ResourceTypeTgwAttachment,
			ResourceName:   attachCfg.TransitGateway.Name,
			OwnerAccountID: v.OwnerAccountID,
			OwnerRegion:    v.Region,
		}
		ctx.Register(ref, attach.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), attach.Ref())
	}
}

// BuildTgwAssociations runs in the transit gateway owner's unit and declares
// route table associations and propagations for every attaching VPC,
// including templated VPCs fanned out per owning account. The association
// map key is "{tgwName}_{routeTableName}"; per-owner keys of templated
// attachments additionally carry the owning account name. Accounts on a
// template's excludedAccounts list are skipped entirely.
func BuildTgwAssociations(ctx *Context, node constructs.Construct, res *TgwResources) {
	declared := make(map[string]struct{})

	associate := func(vpcName, keySuffix string, attachmentID *string, associations, propagations []string) {
		for _, rtbName := range associations {
			rtb, ok := res.RouteTables[rtbName]
			if !ok {
				failf("transit gateway %s: vpc %s associates route table %s which is not defined",
					res.Config.Name, vpcName, rtbName)
			}
			key := res.Config.Name + "_" + rtbName + keySuffix
			if _, dup := declared[key]; dup {
				failf("transit gateway %s: duplicate association %s", res.Config.Name, key)
			}
			declared[key] = struct{}{}

			awsec2.NewCfnTransitGatewayRouteTableAssociation(node, jsii.String("TgwAssoc"+sanitizeID(key)), &awsec2.CfnTransitGatewayRouteTableAssociationProps{
				TransitGatewayAttachmentId: attachmentID,
				TransitGatewayRouteTableId: rtb.Ref(),
			})
		}
		for _, rtbName := range propagations {
			rtb, ok := res.RouteTables[rtbName]
			if !ok {
				failf("transit gateway %s: vpc %s propagates route table %s which is not defined",
					res.Config.Name, vpcName, rtbName)
			}
			key := res.Config.Name + "_" + rtbName + keySuffix + "_prop"
			if _, dup := declared[key]; dup {
				failf("transit gateway %s: duplicate propagation %s", res.Config.Name, key)
			}
			declared[key] = struct{}{}

			awsec2.NewCfnTransitGatewayRouteTablePropagation(node, jsii.String("TgwProp"+sanitizeID(key)), &awsec2.CfnTransitGatewayRouteTablePropagationProps{
				TransitGatewayAttachmentId: attachmentID,
				TransitGatewayRouteTableId: rtb.Ref(),
			})
		}
	}

	for _, vpc := range ctx.Cfg.Vpcs {
		for _, attachCfg := range vpc.TransitGatewayAttachments {
			if attachCfg.TransitGateway.Name != res.Config.Name {
				continue
			}
			attachmentID := ctx.Resolve(scope.NetworkResourceRef{
				VpcName:        vpc.Name,
				Kind:           scope.ResourceTypeTgwAttachment,
				ResourceName:   res.Config.Name,
				OwnerAccountID: ctx.MustAccountID(vpc.Account),
				OwnerRegion:    vpc.Region,
			}).Value
			associate(vpc.Name, "_"+sanitizeID(vpc.Name), attachmentID,
				attachCfg.RouteTableAssociations, attachCfg.RouteTablePropagations)
		}
	}

	for _, tpl := range ctx.Cfg.VpcTemplates {
		for _, attachCfg := range tpl.TransitGatewayAttachments {
			if attachCfg.TransitGateway.Name != res.Config.Name {
				continue
			}
			// One config entry fans out to every targeted owning account;
			// excluded accounts never produce an association or propagation.
			for _, accountName := range netconfig.ExpandDeploymentTargets(tpl.DeploymentTargets, ctx.OuAccounts) {
				attachmentID := ctx.Resolve(scope.NetworkResourceRef{
					VpcName:        tpl.Name,
					Kind:           scope.ResourceTypeTgwAttachment,
					ResourceName:   res.Config.Name,
					OwnerAccountID: ctx.MustAccountID(accountName),
					OwnerRegion:    tpl.Region,
				}).Value
				associate(tpl.Name, "_"+sanitizeID(tpl.Name)+"_"+sanitizeID(accountName), attachmentID,
					attachCfg.RouteTableAssociations, attachCfg.RouteTablePropagations)
			}
		}
	}
}
