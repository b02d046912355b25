package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/scope"
)

var unit = scope.DeploymentUnit{
	AccountID: "111111111111",
	Region:    "us-east-1",
	StackName: "LZNet-NetworkVpcStack-111111111111-us-east-1",
}

func ref(account, region string) scope.NetworkResourceRef {
	return scope.NetworkResourceRef{
		VpcName:        "SomeVpc",
		Kind:           scope.ResourceTypeSubnet,
		ResourceName:   "app-a",
		OwnerAccountID: account,
		OwnerRegion:    region,
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, scope.ClassLocal, scope.Classify(ref("111111111111", "us-east-1"), unit))
	assert.Equal(t, scope.ClassCrossAccount, scope.Classify(ref("222222222222", "us-east-1"), unit))
	assert.Equal(t, scope.ClassCrossRegion, scope.Classify(ref("111111111111", "eu-west-1"), unit))

	// Region difference dominates: shares are region scoped, so a ref that
	// crosses both dimensions must resolve like a cross-region one.
	assert.Equal(t, scope.ClassCrossRegion, scope.Classify(ref("222222222222", "eu-west-1"), unit))
}

func TestIsLocal(t *testing.T) {
	assert.True(t, scope.IsLocal(ref("111111111111", "us-east-1"), unit))
	assert.False(t, scope.IsLocal(ref("222222222222", "us-east-1"), unit))
}

func TestRamResourceTypeString(t *testing.T) {
	assert.Equal(t, "ec2:TransitGateway", scope.ResourceTypeTransitGateway.RamResourceTypeString())
	assert.Equal(t, "ec2:PrefixList", scope.ResourceTypePrefixList.RamResourceTypeString())

	// Kinds AWS cannot share fall back to SSM-based resolution.
	assert.Empty(t, scope.ResourceTypeVpc.RamResourceTypeString())
	assert.Empty(t, scope.ResourceTypeRouteTable.RamResourceTypeString())
	assert.Empty(t, scope.ResourceTypeSecurityGroup.RamResourceTypeString())
}

func scopeTestConfig() *netconfig.NetworkConfig {
	return &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts: []netconfig.AccountConfig{
			{Name: "network", ID: "111111111111", OrganizationalUnit: "Infrastructure"},
			{Name: "workload-a", ID: "222222222222", OrganizationalUnit: "Workloads"},
			{Name: "workload-b", ID: "333333333333", OrganizationalUnit: "Workloads"},
		},
		Vpcs: []netconfig.VpcConfig{
			{Name: "Hub", Account: "network", Region: "us-east-1", CidrBlocks: []string{"10.0.0.0/16"}},
			{Name: "HubWest", Account: "network", Region: "eu-west-1", CidrBlocks: []string{"10.1.0.0/16"}},
			{Name: "SpokeA", Account: "workload-a", Region: "us-east-1", CidrBlocks: []string{"10.2.0.0/16"}},
		},
		VpcTemplates: []netconfig.VpcTemplatesConfig{
			{
				Name:   "Workload",
				Region: "us-east-1",
				DeploymentTargets: netconfig.DeploymentTargets{
					OrganizationalUnits: []string{"Workloads"},
					ExcludedAccounts:    []string{"workload-b"},
				},
				CidrBlocks: []string{"10.3.0.0/16"},
			},
		},
		TransitGateways: []netconfig.TransitGatewayConfig{
			{Name: "CoreTgw", Account: "network", Region: "us-east-1"},
			{Name: "WestTgw", Account: "network", Region: "eu-west-1"},
		},
	}
}

func TestVpcsInScope(t *testing.T) {
	cfg := scopeTestConfig()
	filter := scope.NewFilter(cfg, cfg.OuAccountsMap())

	hub := filter.VpcsInScope(unit)
	require.Len(t, hub, 1)
	assert.Equal(t, "Hub", hub[0].Config.VpcName())
	assert.Equal(t, "network", hub[0].OwnerAccountName)
	assert.Equal(t, "111111111111", hub[0].OwnerAccountID)

	// The template expands to workload-a only: workload-b is excluded and the
	// network account is outside the targeted OU.
	spokeUnit := scope.DeploymentUnit{AccountID: "222222222222", Region: "us-east-1"}
	spokes := filter.VpcsInScope(spokeUnit)
	require.Len(t, spokes, 2)
	names := []string{spokes[0].Config.VpcName(), spokes[1].Config.VpcName()}
	assert.Contains(t, names, "SpokeA")
	assert.Contains(t, names, "Workload")

	excludedUnit := scope.DeploymentUnit{AccountID: "333333333333", Region: "us-east-1"}
	assert.Empty(t, filter.VpcsInScope(excludedUnit))
}

func TestTgwsInScope(t *testing.T) {
	cfg := scopeTestConfig()
	filter := scope.NewFilter(cfg, cfg.OuAccountsMap())

	tgws := filter.TgwsInScope(unit)
	require.Len(t, tgws, 1)
	assert.Equal(t, "CoreTgw", tgws[0].Name)

	westUnit := scope.DeploymentUnit{AccountID: "111111111111", Region: "eu-west-1"}
	west := filter.TgwsInScope(westUnit)
	require.Len(t, west, 1)
	assert.Equal(t, "WestTgw", west[0].Name)
}

func TestSharedVpcs(t *testing.T) {
	cfg := scopeTestConfig()
	cfg.Vpcs[0].Subnets = []netconfig.SubnetConfig{
		{
			Name:          "shared-a",
			Ipv4CidrBlock: "10.0.1.0/24",
			ShareTargets:  netconfig.ShareTargets{Accounts: []string{"workload-a"}},
		},
	}
	// Sharing back to the owner alone does not make a VPC shared.
	cfg.Vpcs[2].Subnets = []netconfig.SubnetConfig{
		{
			Name:          "self-a",
			Ipv4CidrBlock: "10.2.1.0/24",
			ShareTargets:  netconfig.ShareTargets{Accounts: []string{"workload-a"}},
		},
	}
	filter := scope.NewFilter(cfg, cfg.OuAccountsMap())

	shared := filter.SharedVpcs(unit)
	require.Len(t, shared, 1)
	assert.Equal(t, "Hub", shared[0].Config.VpcName())

	spokeUnit := scope.DeploymentUnit{AccountID: "222222222222", Region: "us-east-1"}
	assert.Empty(t, filter.SharedVpcs(spokeUnit))
}

func TestOwnerRef(t *testing.T) {
	cfg := scopeTestConfig()
	filter := scope.NewFilter(cfg, cfg.OuAccountsMap())
	hub := filter.VpcsInScope(unit)[0]

	r := hub.OwnerRef(scope.ResourceTypeSubnet, "app-a")
	assert.Equal(t, scope.NetworkResourceRef{
		VpcName:        "Hub",
		Kind:           scope.ResourceTypeSubnet,
		ResourceName:   "app-a",
		OwnerAccountID: "111111111111",
		OwnerRegion:    "us-east-1",
	}, r)
}
