package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// routeDestination is the resolved "where to" half of a route. Exactly one
// of prefixListID / cidr is set.
type routeDestination struct {
	prefixListID *string
	cidr         *string
}

// resolveRouteDestination applies the destination precedence rules:
//
//  1. a named destinationPrefixList always wins, even when a CIDR is also set;
//  2. a destination string matching a subnet name in the same VPC resolves to
//     that subnet's CIDR (a store read when the block is IPAM-allocated);
//  3. anything else is taken as a literal CIDR.
func resolveRouteDestination(ctx *Context, res *VpcResources, entry netconfig.RouteTableEntryConfig) routeDestination {
	v := res.InScope

	if entry.DestinationPrefixList != "" {
		pl := ctx.Resolve(ctx.PrefixListRef(entry.DestinationPrefixList, v.OwnerAccountID, v.Region))
		return routeDestination{prefixListID: pl.Value}
	}

	if entry.Destination == "" {
		failf("vpc %s: route %s has neither destination nor destinationPrefixList",
			v.Config.VpcName(), entry.Name)
	}

	for _, subnet := range v.Config.SubnetConfigs() {
		if subnet.Name != entry.Destination {
			continue
		}
		if subnet.Ipv4CidrBlock != "" {
			return routeDestination{cidr: jsii.String(subnet.Ipv4CidrBlock)}
		}
		// IPAM-allocated: the block is assigned at deploy time, read it back.
		if cfnSubnet, ok := res.Subnets[subnet.Name]; ok {
			return routeDestination{cidr: cfnSubnet.AttrCidrBlock()}
		}
		return routeDestination{cidr: ctx.Resolve(ctx.SubnetCidrRef(v.Config.VpcName(), subnet.Name)).Value}
	}

	return routeDestination{cidr: jsii.String(entry.Destination)}
}

// BuildRoutes declares the routes of every route table. Must run after
// gateways, attachments and peering connections exist: each route's target
// is looked up in the already-registered maps and a missing target is a
// fail-fast configuration error.
func BuildRoutes(ctx *Context, node constructs.Construct, res *VpcResources, peerings map[string]*PeeringResources) {
	v := res.InScope

	for _, rtb := range v.Config.RouteTableConfigs() {
		cfnRtb := res.RouteTables[rtb.Name]

		for _, entry := range rtb.Routes {
			// Gateway endpoint routes are materialized by the endpoint
			// builder, which collects route tables per service.
			if entry.Type == netconfig.RouteTargetGatewayEndpoint {
				continue
			}

			id := "Route" + sanitizeID(rtb.Name) + sanitizeID(entry.Name)

			// Routes over a cross-account or cross-region peering go through
			// the SDK-backed route framework: their destination prefix list
			// lives in the peer's account and a plain CfnRoute cannot manage
			// the combination.
			if entry.Type == netconfig.RouteTargetVpcPeering {
				peering, ok := peerings[entry.Target]
				if !ok {
					failf("vpc %s: route %s references vpc peering %s which is not defined",
						v.Config.VpcName(), entry.Name, entry.Target)
				}
				if peering.CrossAccount || peering.CrossRegion {
					buildPeeringRoute(ctx, node, id, cfnRtb, res, entry, peering)
					continue
				}
			}

			dest := resolveRouteDestination(ctx, res, entry)

			props := &awsec2.CfnRouteProps{
				RouteTableId:            cfnRtb.Ref(),
				DestinationCidrBlock:    dest.cidr,
				DestinationPrefixListId: dest.prefixListID,
			}

			var dependsOn awsec2.CfnTransitGatewayAttachment

			switch entry.Type {
			case netconfig.RouteTargetTransitGateway:
				tgwID := ctx.Resolve(ctx.TgwRef(entry.Target))
				props.TransitGatewayId = tgwID.Value
				attachKey := attachmentMapKey(entry.Target, v)
				attach, ok := res.TgwAttachments[attachKey]
				if !ok {
					failf("vpc %s: route %s targets transit gateway %s but the VPC declares no attachment to it",
						v.Config.VpcName(), entry.Name, entry.Target)
				}
				dependsOn = attach

			case netconfig.RouteTargetNatGateway:
				nat, ok := res.NatGateways[entry.Target]
				if !ok {
					failf("vpc %s: route %s references nat gateway %s which is not defined",
						v.Config.VpcName(), entry.Name, entry.Target)
				}
				props.NatGatewayId = nat.Ref()

			case netconfig.RouteTargetInternetGateway:
				if res.InternetGateway == nil {
					failf("vpc %s: route %s targets the internet gateway but internetGateway is not enabled",
						v.Config.VpcName(), entry.Name)
				}
				props.GatewayId = res.InternetGateway.Ref()

			case netconfig.RouteTargetVirtualPrivateGateway:
				if res.VirtualPrivateGateway == nil {
					failf("vpc %s: route %s targets the virtual private gateway but none is configured",
						v.Config.VpcName(), entry.Name)
				}
				props.GatewayId = res.VirtualPrivateGateway.Ref()

			case netconfig.RouteTargetVpcPeering:
				peering, ok := peerings[entry.Target]
				if !ok {
					failf("vpc %s: route %s references vpc peering %s which is not defined",
						v.Config.VpcName(), entry.Name, entry.Target)
				}
				props.VpcPeeringConnectionId = peering.ConnectionID

			case netconfig.RouteTargetNetworkFirewall:
				endpoint, ok := res.FirewallEndpoints[entry.TargetAvailabilityZone]
				if !ok {
					failf("vpc %s: route %s targets network firewall endpoint in AZ %q which is not deployed",
						v.Config.VpcName(), entry.Name, entry.TargetAvailabilityZone)
				}
				props.VpcEndpointId = endpoint

			default:
				failf("vpc %s: route %s has unsupported target type %q",
					v.Config.VpcName(), entry.Name, entry.Type)
			}

			route := awsec2.NewCfnRoute(node, jsii.String(id), props)
			route.AddDependency(cfnRtb)
			if dependsOn != nil {
				route.AddDependency(dependsOn)
			}
		}
	}
}

// buildPeeringRoute declares one route over a cross-account or cross-region
// peering connection. Prefix list destinations resolve against the peer side,
// since the list describing the peer's address space is owned there.
func buildPeeringRoute(ctx *Context, node constructs.Construct, id string, cfnRtb awsec2.CfnRouteTable, res *VpcResources, entry netconfig.RouteTableEntryConfig, peering *PeeringResources) {
	v := res.InScope

	peer := peering.Accepter
	if v.Config.VpcName() == peering.Accepter.VpcName {
		peer = peering.Requester
	}

	var dest routeDestination
	if entry.DestinationPrefixList != "" {
		pl := ctx.Resolve(ctx.PrefixListRef(entry.DestinationPrefixList, peer.OwnerAccountID, peer.OwnerRegion))
		dest = routeDestination{prefixListID: pl.Value}
	} else {
		dest = resolveRouteDestination(ctx, res, entry)
	}

	if peering.ConnectionID == nil {
		failf("vpc %s: route %s references vpc peering %s before its connection id is available",
			v.Config.VpcName(), entry.Name, peering.Name)
	}

	route := lookup.NewCrossAccountRoute(node, id, &lookup.CrossAccountRouteProps{
		OwnerAccountID:          v.OwnerAccountID,
		OwnerRegion:             v.Region,
		RoleName:                lookup.VpcPeeringRoleName(ctx.Prefix, v.Region),
		Partition:               ctx.Partition,
		RouteTableID:            cfnRtb.Ref(),
		DestinationCidrBlock:    dest.cidr,
		DestinationPrefixListID: dest.prefixListID,
		PeeringConnectionID:     peering.ConnectionID,
	})
	route.Resource().Node().AddDependency(cfnRtb)
}

// attachmentMapKey matches the key used when the attachment was declared:
// templated VPCs fan one config entry out to many owning accounts, so the
// per-owner key carries the owning account name.
func attachmentMapKey(tgwName string, v scope.VpcInScope) string {
	if v.Config.Kind() == netconfig.VpcKindTemplate {
		return tgwName + "_" + v.OwnerAccountName
	}
	return tgwName
}
