package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildIpams declares the IPAM instances owned by the central delegated
// admin, with their pool hierarchies. Runs only in the delegated admin's
// units; every other unit consumes pool ids through resolution.
func BuildIpams(ctx *Context, node constructs.Construct) {
	central := ctx.Cfg.CentralNetworkServices
	if central == nil || central.DelegatedAdminAccount == "" {
		return
	}
	if ctx.MustAccountID(central.DelegatedAdminAccount) != ctx.Unit.AccountID {
		return
	}

	for _, ipamCfg := range central.Ipams {
		if ipamCfg.Region != ctx.Unit.Region {
			continue
		}

		operating := lo.Map(ipamCfg.OperatingRegions, func(region string, _ int) interface{} {
			return &awsec2.CfnIPAM_IpamOperatingRegionProperty{RegionName: jsii.String(region)}
		})

		ipam := awsec2.NewCfnIPAM(node, jsii.String("Ipam"+sanitizeID(ipamCfg.Name)), &awsec2.CfnIPAMProps{
			Description:      jsii.String(ipamCfg.Name),
			OperatingRegions: &operating,
		})

		pools := make(map[string]awsec2.CfnIPAMPool, len(ipamCfg.Pools))
		for _, poolCfg := range ipamCfg.Pools {
			family := poolCfg.AddressFamily
			if family == "" {
				family = "ipv4"
			}
			locale := poolCfg.Locale
			if locale == "" {
				locale = ipamCfg.Region
			}

			ref := scope.NetworkResourceRef{
				Kind:           scope.ResourceTypeIpamPool,
				ResourceName:   poolCfg.Name,
				OwnerAccountID: ctx.Unit.AccountID,
				OwnerRegion:    locale,
			}
			// Pools materialized by a prior generation stay untouched; their
			// published ids keep serving both consumers and child pools.
			if ctx.Ledger.Contains(ref) {
				continue
			}

			props := &awsec2.CfnIPAMPoolProps{
				IpamScopeId:   ipam.AttrPrivateDefaultScopeId(),
				AddressFamily: jsii.String(family),
				Locale:        jsii.String(locale),
			}
			if len(poolCfg.ProvisionedCidrs) > 0 {
				cidrs := lo.Map(poolCfg.ProvisionedCidrs, func(cidr string, _ int) interface{} {
					return &awsec2.CfnIPAMPool_ProvisionedCidrProperty{Cidr: jsii.String(cidr)}
				})
				props.ProvisionedCidrs = &cidrs
			}
			if poolCfg.SourceIpamPool != "" {
				if parent, ok := pools[poolCfg.SourceIpamPool]; ok {
					props.SourceIpamPoolId = parent.AttrIpamPoolId()
				} else if id, ok := priorPoolID(ctx, ipamCfg, poolCfg.SourceIpamPool); ok {
					props.SourceIpamPoolId = id
				} else {
					failf("ipam %s: pool %s sources pool %s which is not declared before it",
						ipamCfg.Name, poolCfg.Name, poolCfg.SourceIpamPool)
				}
			}

			pool := awsec2.NewCfnIPAMPool(node, jsii.String("IpamPool"+sanitizeID(poolCfg.Name)), props)
			pools[poolCfg.Name] = pool

			// Consumers resolve a pool in its locale region. A pool whose
			// locale differs from the IPAM's home region gets its id pushed
			// into the locale region's store instead of published locally.
			if locale == ctx.Unit.Region {
				ctx.Register(ref, pool.AttrIpamPoolId())
				ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), pool.AttrIpamPoolId())
			} else {
				push := ctx.Push("PushIpamPool"+sanitizeID(poolCfg.Name),
					ctx.Unit.AccountID, locale,
					[]lookup.ParamEntry{{
						Key:   idstore.KeyForRef(ctx.Store.Prefix(), ref),
						Value: pool.AttrIpamPoolId(),
					}})
				push.Resource().Node().AddDependency(pool)
			}

			if !poolCfg.ShareTargets.Empty() {
				BuildResourceShare(ctx, node, poolCfg.Name, scope.ResourceTypeIpamPool,
					ipamPoolArn(ctx, pool), netconfigShareAccounts(ctx, poolCfg.ShareTargets))
			}
		}
	}
}

// priorPoolID reads the store-published id of a pool skipped in this pass
// because a prior generation materialized it.
func priorPoolID(ctx *Context, ipamCfg netconfig.IpamConfig, name string) (*string, bool) {
	for _, poolCfg := range ipamCfg.Pools {
		if poolCfg.Name != name {
			continue
		}
		locale := poolCfg.Locale
		if locale == "" {
			locale = ipamCfg.Region
		}
		ref := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeIpamPool,
			ResourceName:   name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    locale,
		}
		if ctx.Ledger.Contains(ref) {
			return ctx.Store.Read(idstore.KeyForRef(ctx.Store.Prefix(), ref)), true
		}
	}
	return nil, false
}

func ipamPoolArn(ctx *Context, pool awsec2.CfnIPAMPool) *string {
	return jsii.String(fmt.Sprintf("arn:%s:ec2::%s:ipam-pool/%s",
		ctx.Partition, ctx.Unit.AccountID, *pool.AttrIpamPoolId()))
}
