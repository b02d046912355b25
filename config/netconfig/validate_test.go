package netconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelera/lznet/config/netconfig"
)

const validDoc = `
homeRegion: us-east-1
accounts:
  - name: network
    id: "111111111111"
    organizationalUnit: Infrastructure
  - name: workload-a
    id: "222222222222"
    organizationalUnit: Workloads
vpcs:
  - name: Hub
    account: network
    region: us-east-1
    cidrs:
      - 10.0.0.0/16
    subnets:
      - name: app-a
        availabilityZone: a
        ipv4CidrBlock: 10.0.1.0/24
`

func TestParseValidDocument(t *testing.T) {
	cfg, err := netconfig.Parse([]byte(validDoc))
	require.NoError(t, err)

	require.Len(t, cfg.Vpcs, 1)
	assert.Equal(t, "Hub", cfg.Vpcs[0].Name)

	id, ok := cfg.AccountID("workload-a")
	require.True(t, ok)
	assert.Equal(t, "222222222222", id)

	_, ok = cfg.AccountID("nonexistent")
	assert.False(t, ok)

	assert.Equal(t, map[string][]string{
		"Infrastructure": {"network"},
		"Workloads":      {"workload-a"},
	}, cfg.OuAccountsMap())
}

func TestParseRejectsMalformedYaml(t *testing.T) {
	_, err := netconfig.Parse([]byte("vpcs: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode network config")
}

func TestValidateStructuralRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *netconfig.NetworkConfig)
		wantErr string
	}{
		{
			name: "vpc without cidr or ipam allocation",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].CidrBlocks = nil
			},
			wantErr: "either cidrs or ipamAllocations",
		},
		{
			name: "vpc in unknown account",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].Account = "ghost"
			},
			wantErr: "unknown account ghost",
		},
		{
			name: "subnet without cidr or ipam allocation",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].Subnets[0].Ipv4CidrBlock = ""
			},
			wantErr: "needs ipv4CidrBlock or ipamAllocation",
		},
		{
			name: "peering names unknown vpc",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.VpcPeerings = []netconfig.VpcPeeringConfig{
					{Name: "HubToGhost", Vpcs: []string{"Hub", "Ghost"}},
				}
			},
			wantErr: "vpc Ghost is not defined",
		},
		{
			name: "prefix list with both targeting styles",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.PrefixLists = []netconfig.PrefixListConfig{
					{
						Name:              "corporate",
						Accounts:          []string{"network"},
						DeploymentTargets: &netconfig.DeploymentTargets{Accounts: []string{"network"}},
						MaxEntries:        10,
						Entries:           []string{"10.0.0.0/8"},
					},
				}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "prefix list with no targeting",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.PrefixLists = []netconfig.PrefixListConfig{
					{Name: "corporate", MaxEntries: 10, Entries: []string{"10.0.0.0/8"}},
				}
			},
			wantErr: "one of accounts or deploymentTargets is required",
		},
		{
			name: "inbound resolver endpoint with rules",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.CentralNetworkServices = &netconfig.CentralNetworkServicesConfig{
					Route53Resolver: &netconfig.ResolverConfig{
						Endpoints: []netconfig.ResolverEndpointConfig{
							{
								Name:    "inbound",
								Type:    "INBOUND",
								Vpc:     "Hub",
								Subnets: []string{"app-a"},
								Rules: []netconfig.ResolverRuleConfig{
									{Name: "r", DomainName: "corp.example.com"},
								},
							},
						},
					},
				}
			},
			wantErr: "INBOUND endpoints cannot define rules",
		},
		{
			name: "outbound rule without target ips",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.CentralNetworkServices = &netconfig.CentralNetworkServicesConfig{
					Route53Resolver: &netconfig.ResolverConfig{
						Endpoints: []netconfig.ResolverEndpointConfig{
							{
								Name:    "outbound",
								Type:    "OUTBOUND",
								Vpc:     "Hub",
								Subnets: []string{"app-a"},
								Rules: []netconfig.ResolverRuleConfig{
									{Name: "r", DomainName: "corp.example.com"},
								},
							},
						},
					},
				}
			},
			wantErr: "has no target IPs",
		},
		{
			name: "dns firewall rule with both domain sources",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.CentralNetworkServices = &netconfig.CentralNetworkServicesConfig{
					Route53Resolver: &netconfig.ResolverConfig{
						FirewallRuleGroups: []netconfig.DnsFirewallRuleGroupConfig{
							{
								Name:    "block-list",
								Regions: []string{"us-east-1"},
								Rules: []netconfig.DnsFirewallRuleConfig{
									{
										Name:              "both",
										Action:            "BLOCK",
										Priority:          100,
										ManagedDomainList: "AWSManagedDomainsBotnetCommandandControl",
										CustomDomains:     []string{"bad.example.com"},
									},
								},
							},
						},
					},
				}
			},
			wantErr: "exactly one of managedDomainList or customDomainList",
		},
		{
			name: "alb target group without targets",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].LoadBalancers = &netconfig.LoadBalancersConfig{
					TargetGroups: []netconfig.TargetGroupItemConfig{
						{Name: "tg", Protocol: "TCP", Port: 80, Type: "alb"},
					},
				}
			},
			wantErr: "needs targets",
		},
		{
			name: "alb target group naming unknown load balancer",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].LoadBalancers = &netconfig.LoadBalancersConfig{
					TargetGroups: []netconfig.TargetGroupItemConfig{
						{Name: "tg", Protocol: "TCP", Port: 80, Type: "alb", Targets: []string{"ghost-alb"}},
					},
				}
			},
			wantErr: "unknown load balancer ghost-alb",
		},
		{
			name: "gateway endpoint route without gateway endpoints",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.Vpcs[0].RouteTables = []netconfig.RouteTableConfig{
					{Name: "main", Routes: []netconfig.RouteTableEntryConfig{
						{Name: "s3-gw", Type: netconfig.RouteTargetGatewayEndpoint, Target: "s3"},
					}},
				}
			},
			wantErr: "targets a gateway endpoint but the VPC enables none",
		},
		{
			name: "vpc template without address space",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.VpcTemplates = []netconfig.VpcTemplatesConfig{
					{
						Name:              "Workload",
						Region:            "us-east-1",
						DeploymentTargets: netconfig.DeploymentTargets{OrganizationalUnits: []string{"Workloads"}},
					},
				}
			},
			wantErr: "either cidrs or ipamAllocations",
		},
		{
			name: "vpc template subnet without address",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.VpcTemplates = []netconfig.VpcTemplatesConfig{
					{
						Name:              "Workload",
						Region:            "us-east-1",
						DeploymentTargets: netconfig.DeploymentTargets{OrganizationalUnits: []string{"Workloads"}},
						CidrBlocks:        []string{"10.9.0.0/16"},
						Subnets:           []netconfig.SubnetConfig{{Name: "app-a", AvailabilityZone: "a"}},
					},
				}
			},
			wantErr: "needs ipv4CidrBlock or ipamAllocation",
		},
		{
			name: "vpc template with gateway endpoint route",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.VpcTemplates = []netconfig.VpcTemplatesConfig{
					{
						Name:              "Workload",
						Region:            "us-east-1",
						DeploymentTargets: netconfig.DeploymentTargets{OrganizationalUnits: []string{"Workloads"}},
						CidrBlocks:        []string{"10.9.0.0/16"},
						RouteTables: []netconfig.RouteTableConfig{
							{Name: "main", Routes: []netconfig.RouteTableEntryConfig{
								{Name: "s3-gw", Type: netconfig.RouteTargetGatewayEndpoint, Target: "s3"},
							}},
						},
					},
				}
			},
			wantErr: "which templated VPCs cannot declare",
		},
		{
			name: "vpc template selecting nothing",
			mutate: func(cfg *netconfig.NetworkConfig) {
				cfg.VpcTemplates = []netconfig.VpcTemplatesConfig{
					{Name: "Empty", Region: "us-east-1", CidrBlocks: []string{"10.9.0.0/16"}},
				}
			},
			wantErr: "selects no accounts",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := netconfig.Parse([]byte(validDoc))
			require.NoError(t, err)

			tc.mutate(cfg)
			err = netconfig.Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
