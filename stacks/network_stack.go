// Package stacks assembles deployment-unit stacks from the network
// configuration. Each stack is one (account, region) synthesis pass; units
// never reference each other's constructs directly, only through the
// identifier store and the lookup custom resources.
package stacks

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config"
	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/cdklogger"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/netbuild"
	"github.com/accelera/lznet/lib/scope"
)

type NetworkStackProps struct {
	awscdk.StackProps

	// Config carries a pre-loaded network configuration; when nil the file
	// named by NETWORK_CONFIG_PATH is loaded instead.
	Config *netconfig.NetworkConfig

	// PriorGeneration lists resources materialized by an earlier installation
	// generation. Builders skip re-declaring them; their published identifiers
	// keep serving consumers.
	PriorGeneration []scope.NetworkResourceRef
}

// NetworkStack synthesizes every networking resource of one deployment unit.
// The build plan is an explicit topological sequence: resources that others
// reference are declared in earlier phases, never discovered lazily.
func NetworkStack(scope_ constructs.Construct, id string, props *NetworkStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope_, jsii.String(id), &sprops)
	if !config.IsStackInSynthesis(stack) {
		return stack
	}

	cfg := props.Config
	if cfg == nil {
		envVars := config.GetEnvironmentVariables[config.MainEnvironmentVariables](stack)
		loaded, err := netconfig.Load(envVars.NetworkConfigPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	unit := scope.DeploymentUnit{
		AccountID: *stack.Account(),
		Region:    *stack.Region(),
		StackName: *stack.StackName(),
	}

	ouAccounts := cfg.OuAccountsMap()
	store := idstore.NewStore(stack, config.SsmPrefix(stack))
	ctx := netbuild.NewContext(stack, unit, cfg, store,
		config.AcceleratorPrefix(stack), config.Partition(stack), ouAccounts)
	ctx.Ledger = scope.NewGenerationLedger(props.PriorGeneration)
	filter := scope.NewFilter(cfg, ouAccounts)

	// Phase 1: unit-wide producers other resources resolve against.
	netbuild.BuildIpams(ctx, stack)
	netbuild.BuildPrefixLists(ctx, stack)
	netbuild.BuildNetworkFirewallPolicies(ctx, stack)
	netbuild.BuildDnsFirewallRuleGroups(ctx, stack)
	netbuild.BuildQueryLogging(ctx, stack)
	netbuild.BuildDxGateways(ctx, stack)

	var tgws []*netbuild.TgwResources
	for _, tgwCfg := range filter.TgwsInScope(unit) {
		tgws = append(tgws, netbuild.BuildTransitGateway(ctx, stack, tgwCfg))
	}

	// Phase 2: base network per in-scope VPC.
	vpcsInScope := filter.VpcsInScope(unit)
	built := make(map[string]*netbuild.VpcResources, len(vpcsInScope))
	nodes := make(map[string]constructs.Construct, len(vpcsInScope))
	for _, v := range vpcsInScope {
		node := constructs.NewConstruct(stack, jsii.String("Network"+constructID(v.Config.VpcName())))
		nodes[v.Config.VpcName()] = node

		res := netbuild.BuildVpc(ctx, node, v)
		netbuild.BuildRouteTables(ctx, node, res)
		netbuild.BuildSubnets(ctx, node, res)
		netbuild.BuildNatGateways(ctx, node, res)
		built[v.Config.VpcName()] = res
	}

	// Phase 3: traffic controls.
	for _, v := range vpcsInScope {
		name := v.Config.VpcName()
		netbuild.BuildSecurityGroups(ctx, nodes[name], built[name])
		netbuild.BuildNetworkAcls(ctx, nodes[name], built[name])
	}

	// Phase 4: gateways and attachments.
	for _, v := range vpcsInScope {
		name := v.Config.VpcName()
		netbuild.BuildTgwVpcAttachments(ctx, nodes[name], built[name])
		netbuild.BuildNetworkFirewalls(ctx, nodes[name], built[name])
	}
	peerings := netbuild.BuildVpcPeerings(ctx, stack, built)
	netbuild.BuildCustomerGateways(ctx, stack, built)

	// Phase 5: wiring that references attachments and gateways.
	for _, tgwRes := range tgws {
		netbuild.BuildTgwStaticRoutes(ctx, stack, tgwRes)
		netbuild.BuildTgwAssociations(ctx, stack, tgwRes)
		netbuild.BuildVpnTgwAssociations(ctx, stack, tgwRes)
		netbuild.BuildDxTgwRouteTableWiring(ctx, stack, tgwRes)
	}
	for _, v := range vpcsInScope {
		name := v.Config.VpcName()
		netbuild.BuildRoutes(ctx, nodes[name], built[name], peerings)
	}

	// Phase 6: services layered on the base network.
	netbuild.BuildResolverEndpoints(ctx, stack, built)
	for _, v := range vpcsInScope {
		name := v.Config.VpcName()
		netbuild.BuildVpcEndpoints(ctx, nodes[name], built[name])
		netbuild.BuildResolverRuleAssociations(ctx, nodes[name], built[name])
		netbuild.BuildQueryLogAssociations(ctx, nodes[name], built[name])
		netbuild.BuildDnsFirewallAssociations(ctx, nodes[name], built[name])
		netbuild.BuildLoadBalancers(ctx, nodes[name], built[name])
		netbuild.BuildSubnetShares(ctx, nodes[name], built[name])
	}

	cdklogger.LogInfo(stack, "", "Unit %s/%s: %d VPC(s), %d transit gateway(s) in scope",
		unit.AccountID, unit.Region, len(built), len(tgws))

	return stack
}

func constructID(name string) string {
	replacer := strings.NewReplacer("-", "", "_", "", ".", "", "/", "")
	return replacer.Replace(name)
}
