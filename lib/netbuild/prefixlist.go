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

// BuildPrefixLists declares every managed prefix list targeted at this unit
// and publishes its id. Prefix lists replicate per account+region, so each
// targeted unit owns its own copy and references to them stay local unless
// the configuration points at another owner explicitly.
func BuildPrefixLists(ctx *Context, node constructs.Construct) map[string]awsec2.CfnPrefixList {
	out := make(map[string]awsec2.CfnPrefixList)

	for _, cfg := range ctx.Cfg.PrefixLists {
		if !prefixListTargetsUnit(ctx, cfg) {
			continue
		}

		ref := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypePrefixList,
			ResourceName:   cfg.Name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		// A prefix list materialized by a prior generation keeps its published
		// identifier; consumers fall back to the store read.
		if ctx.Ledger.Contains(ref) {
			continue
		}

		family := cfg.AddressFamily
		if family == "" {
			family = "IPv4"
		}

		entries := lo.Map(cfg.Entries, func(cidr string, _ int) interface{} {
			return &awsec2.CfnPrefixList_EntryProperty{Cidr: jsii.String(cidr)}
		})

		pl := awsec2.NewCfnPrefixList(node, jsii.String("PrefixList"+sanitizeID(cfg.Name)), &awsec2.CfnPrefixListProps{
			PrefixListName: jsii.String(cfg.Name),
			AddressFamily:  jsii.String(family),
			MaxEntries:     jsii.Number(float64(cfg.MaxEntries)),
			Entries:        &entries,
		})
		out[cfg.Name] = pl

		ctx.Register(ref, pl.AttrPrefixListId())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), pl.AttrPrefixListId())
	}

	return out
}

// prefixListTargetsUnit evaluates the legacy accounts+regions pair or the
// deploymentTargets block, whichever the entry uses.
func prefixListTargetsUnit(ctx *Context, cfg netconfig.PrefixListConfig) bool {
	if cfg.DeploymentTargets != nil {
		accounts := netconfig.ExpandDeploymentTargets(*cfg.DeploymentTargets, ctx.OuAccounts)
		inAccount := lo.SomeBy(accounts, func(name string) bool {
			return ctx.MustAccountID(name) == ctx.Unit.AccountID
		})
		return inAccount && netconfig.TargetsRegion(*cfg.DeploymentTargets, ctx.Unit.Region)
	}

	inAccount := lo.SomeBy(cfg.Accounts, func(name string) bool {
		return ctx.MustAccountID(name) == ctx.Unit.AccountID
	})
	return inAccount && lo.Contains(cfg.Regions, ctx.Unit.Region)
}
