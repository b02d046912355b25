package stacks_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelera/lznet/config"
	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/scope"
	"github.com/accelera/lznet/stacks"
)

func synthUnit(t *testing.T, cfg *netconfig.NetworkConfig, accountID, region string) assertions.Template {
	t.Helper()
	return synthUnitWithPrior(t, cfg, accountID, region, nil)
}

func synthUnitWithPrior(t *testing.T, cfg *netconfig.NetworkConfig, accountID, region string, prior []scope.NetworkResourceRef) assertions.Template {
	t.Helper()
	require.NoError(t, netconfig.Validate(cfg))

	app := awscdk.NewApp(nil)
	stack := stacks.NetworkStack(app, config.NetworkStackName("LZNet", accountID, region), &stacks.NetworkStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(accountID),
				Region:  jsii.String(region),
			},
		},
		Config:          cfg,
		PriorGeneration: prior,
	})
	return assertions.Template_FromStack(stack, nil)
}

func baseAccounts() []netconfig.AccountConfig {
	return []netconfig.AccountConfig{
		{Name: "network", ID: "111111111111", OrganizationalUnit: "Infrastructure"},
		{Name: "workload-a", ID: "222222222222", OrganizationalUnit: "Workloads"},
	}
}

func hubVpc() netconfig.VpcConfig {
	return netconfig.VpcConfig{
		Name:               "Hub",
		Account:            "network",
		Region:             "us-east-1",
		CidrBlocks:         []string{"10.0.0.0/16"},
		InternetGateway:    true,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		Subnets: []netconfig.SubnetConfig{
			{Name: "public-a", AvailabilityZone: "a", RouteTable: "public", Ipv4CidrBlock: "10.0.0.0/24", MapPublicIp: true},
			{Name: "private-a", AvailabilityZone: "a", RouteTable: "private", Ipv4CidrBlock: "10.0.1.0/24"},
		},
		RouteTables: []netconfig.RouteTableConfig{
			{Name: "public", Routes: []netconfig.RouteTableEntryConfig{
				{Name: "default", Destination: "0.0.0.0/0", Type: netconfig.RouteTargetInternetGateway},
			}},
			{Name: "private", Routes: []netconfig.RouteTableEntryConfig{
				{Name: "default", Destination: "0.0.0.0/0", Type: netconfig.RouteTargetNatGateway, Target: "nat-a"},
			}},
		},
		NatGateways: []netconfig.NatGatewayConfig{
			{Name: "nat-a", Subnet: "public-a"},
		},
		SecurityGroups: []netconfig.SecurityGroupConfig{
			{
				Name: "web",
				InboundRules: []netconfig.SecurityGroupRuleConfig{
					{Description: "tls from corporate", Types: []string{"HTTPS"}, Sources: []netconfig.SecurityGroupSource{{Cidr: "10.0.0.0/8"}}},
				},
			},
			{
				Name: "app",
				InboundRules: []netconfig.SecurityGroupRuleConfig{
					{Description: "app from web tier", TcpPorts: []int{8080}, Sources: []netconfig.SecurityGroupSource{{SecurityGroups: []string{"web"}}}},
				},
			},
		},
	}
}

func TestNetworkStackSingleVpcUnit(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{hubVpc()},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::VPC"), map[string]interface{}{
		"CidrBlock":          "10.0.0.0/16",
		"EnableDnsHostnames": true,
		"EnableDnsSupport":   true,
	})

	template.ResourceCountIs(jsii.String("AWS::EC2::InternetGateway"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::EC2::Subnet"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::RouteTable"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::SubnetRouteTableAssociation"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::EC2::NatGateway"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::EC2::EIP"), jsii.Number(1))

	template.HasResourceProperties(jsii.String("AWS::EC2::Subnet"), map[string]interface{}{
		"CidrBlock":           "10.0.0.0/24",
		"AvailabilityZone":    "us-east-1a",
		"MapPublicIpOnLaunch": true,
	})

	// One default route per table: internet gateway and NAT gateway.
	template.ResourceCountIs(jsii.String("AWS::EC2::Route"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("AWS::EC2::Route"), map[string]interface{}{
		"DestinationCidrBlock": "0.0.0.0/0",
		"GatewayId":            assertions.Match_AnyValue(),
	})
	template.HasResourceProperties(jsii.String("AWS::EC2::Route"), map[string]interface{}{
		"DestinationCidrBlock": "0.0.0.0/0",
		"NatGatewayId":         assertions.Match_AnyValue(),
	})

	// Two-pass security group build: the plain CIDR rule and the
	// group-sourced rule both materialize.
	template.ResourceCountIs(jsii.String("AWS::EC2::SecurityGroup"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupIngress"), map[string]interface{}{
		"IpProtocol": "tcp",
		"FromPort":   443,
		"ToPort":     443,
		"CidrIp":     "10.0.0.0/8",
	})
	template.HasResourceProperties(jsii.String("AWS::EC2::SecurityGroupIngress"), map[string]interface{}{
		"IpProtocol":            "tcp",
		"FromPort":              8080,
		"ToPort":                8080,
		"SourceSecurityGroupId": assertions.Match_AnyValue(),
	})

	// Published identifiers for downstream units.
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/vpc/Hub",
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/subnet/Hub/private-a",
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/subnet/Hub/private-a/cidr",
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/routeTable/Hub/private",
	})

	// No cross-unit references in this scenario, so no lookup machinery.
	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(0))
}

func TestNetworkStackScopePartition(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{hubVpc()},
	}

	// The workload account's unit materializes nothing from another
	// account's VPC.
	template := synthUnit(t, cfg, "222222222222", "us-east-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::SSM::Parameter"), jsii.Number(0))

	// Neither does the owner account's unit in another region.
	template = synthUnit(t, cfg, "111111111111", "eu-west-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(0))
}

func TestNetworkStackVpcTemplateFanOut(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		VpcTemplates: []netconfig.VpcTemplatesConfig{
			{
				Name:   "Workload",
				Region: "us-east-1",
				DeploymentTargets: netconfig.DeploymentTargets{
					OrganizationalUnits: []string{"Workloads"},
				},
				CidrBlocks: []string{"10.3.0.0/16"},
				Subnets: []netconfig.SubnetConfig{
					{Name: "app-a", AvailabilityZone: "a", Ipv4CidrBlock: "10.3.0.0/24"},
				},
			},
		},
	}

	template := synthUnit(t, cfg, "222222222222", "us-east-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::VPC"), map[string]interface{}{
		"CidrBlock": "10.3.0.0/16",
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/vpc/Workload",
	})

	// The template's region bounds the fan-out.
	template = synthUnit(t, cfg, "222222222222", "eu-west-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(0))
}

func TestNetworkStackTransitGatewayHub(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		TransitGateways: []netconfig.TransitGatewayConfig{
			{
				Name:       "CoreTgw",
				Account:    "network",
				Region:     "us-east-1",
				Asn:        64512,
				DnsSupport: "enable",
				RouteTables: []netconfig.TgwRouteTableConfig{
					{Name: "shared", Routes: []netconfig.TgwRouteEntryConfig{
						{DestinationCidrBlock: "10.99.0.0/16", Blackhole: true},
					}},
					{Name: "core"},
				},
				ShareTargets: netconfig.ShareTargets{OrganizationalUnits: []string{"Workloads"}},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGateway"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::TransitGateway"), map[string]interface{}{
		"AmazonSideAsn": 64512,
		"DnsSupport":    "enable",
	})
	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGatewayRouteTable"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("AWS::EC2::TransitGatewayRoute"), map[string]interface{}{
		"DestinationCidrBlock": "10.99.0.0/16",
		"Blackhole":            true,
	})

	template.HasResourceProperties(jsii.String("AWS::RAM::ResourceShare"), map[string]interface{}{
		"Name":                    "CoreTgw_TransitGatewayShare",
		"Principals":              []interface{}{"222222222222"},
		"AllowExternalPrincipals": false,
	})

	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/transitGateways/CoreTgw",
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/transitGatewayRouteTables/CoreTgw/shared",
	})
}

func TestNetworkStackCrossAccountSpoke(t *testing.T) {
	spoke := netconfig.VpcConfig{
		Name:       "Spoke",
		Account:    "workload-a",
		Region:     "us-east-1",
		CidrBlocks: []string{"10.1.0.0/16"},
		Subnets: []netconfig.SubnetConfig{
			{Name: "tgw-a", AvailabilityZone: "a", RouteTable: "main", Ipv4CidrBlock: "10.1.0.0/28"},
		},
		RouteTables: []netconfig.RouteTableConfig{
			{Name: "main", Routes: []netconfig.RouteTableEntryConfig{
				{
					Name:                  "to-corporate",
					Destination:           "10.99.0.0/16",
					DestinationPrefixList: "corporate",
					Type:                  netconfig.RouteTargetTransitGateway,
					Target:                "CoreTgw",
				},
			}},
		},
		TransitGatewayAttachments: []netconfig.TransitGatewayAttachmentConfig{
			{
				Name:           "SpokeToCore",
				TransitGateway: netconfig.TransitGatewayAttachmentTarget{Name: "CoreTgw", Account: "network"},
				Subnets:        []string{"tgw-a"},
			},
		},
	}
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{spoke},
		TransitGateways: []netconfig.TransitGatewayConfig{
			{Name: "CoreTgw", Account: "network", Region: "us-east-1"},
		},
		PrefixLists: []netconfig.PrefixListConfig{
			{
				Name:       "corporate",
				Accounts:   []string{"workload-a"},
				Regions:    []string{"us-east-1"},
				MaxEntries: 10,
				Entries:    []string{"10.99.0.0/16"},
			},
		},
	}

	template := synthUnit(t, cfg, "222222222222", "us-east-1")

	// The transit gateway lives in another account in the same region, so it
	// resolves through its RAM share rather than an assumed-role SSM read.
	template.ResourceCountIs(jsii.String("Custom::ResourceShareItemLookup"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("Custom::GetNetworkSsmParameter"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGatewayAttachment"), jsii.Number(1))

	// The attachment id is published for the hub unit's association pass.
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name": "/lznet/transitGatewayAttachments/Spoke/CoreTgw",
	})

	// Destination precedence: the named prefix list wins over the literal
	// CIDR on the same entry.
	template.HasResourceProperties(jsii.String("AWS::EC2::Route"), map[string]interface{}{
		"DestinationPrefixListId": assertions.Match_AnyValue(),
		"DestinationCidrBlock":    assertions.Match_Absent(),
	})
	template.ResourceCountIs(jsii.String("AWS::EC2::PrefixList"), jsii.Number(1))
}

func TestNetworkStackCrossRegionPeering(t *testing.T) {
	east := hubVpc()
	west := netconfig.VpcConfig{
		Name:       "HubWest",
		Account:    "network",
		Region:     "eu-west-1",
		CidrBlocks: []string{"10.8.0.0/16"},
	}
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{east, west},
		VpcPeerings: []netconfig.VpcPeeringConfig{
			{Name: "EastWest", Vpcs: []string{"Hub", "HubWest"}},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// The requester declares the connection; the accepter's VPC id comes
	// through the cross-region store read.
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCPeeringConnection"), map[string]interface{}{
		"PeerRegion": "eu-west-1",
	})
	template.ResourceCountIs(jsii.String("Custom::GetNetworkSsmParameter"), jsii.Number(1))

	// The connection id propagates into the accepter unit's store.
	template.ResourceCountIs(jsii.String("Custom::PutNetworkSsmParameters"), jsii.Number(1))

	// The accepter unit declares nothing; it reads the pushed id.
	template = synthUnit(t, cfg, "111111111111", "eu-west-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCPeeringConnection"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("Custom::PutNetworkSsmParameters"), jsii.Number(0))
}

func TestNetworkStackLocalPeeringRoutes(t *testing.T) {
	a := netconfig.VpcConfig{
		Name:       "Alpha",
		Account:    "network",
		Region:     "us-east-1",
		CidrBlocks: []string{"10.10.0.0/16"},
		RouteTables: []netconfig.RouteTableConfig{
			{Name: "main", Routes: []netconfig.RouteTableEntryConfig{
				{Name: "to-beta", Destination: "10.20.0.0/16", Type: netconfig.RouteTargetVpcPeering, Target: "AlphaBeta"},
			}},
		},
	}
	b := netconfig.VpcConfig{
		Name:       "Beta",
		Account:    "network",
		Region:     "us-east-1",
		CidrBlocks: []string{"10.20.0.0/16"},
	}
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{a, b},
		VpcPeerings: []netconfig.VpcPeeringConfig{
			{Name: "AlphaBeta", Vpcs: []string{"Alpha", "Beta"}},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// Both sides are local: a plain peering connection and a plain route,
	// no custom resources at all.
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCPeeringConnection"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::Route"), map[string]interface{}{
		"DestinationCidrBlock":   "10.20.0.0/16",
		"VpcPeeringConnectionId": assertions.Match_AnyValue(),
	})
	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(0))
}

func TestNetworkStackPriorGenerationSkips(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		PrefixLists: []netconfig.PrefixListConfig{
			{
				Name:       "corporate",
				Accounts:   []string{"network"},
				Regions:    []string{"us-east-1"},
				MaxEntries: 10,
				Entries:    []string{"10.99.0.0/16"},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::PrefixList"), jsii.Number(1))

	prior := []scope.NetworkResourceRef{
		{
			Kind:           scope.ResourceTypePrefixList,
			ResourceName:   "corporate",
			OwnerAccountID: "111111111111",
			OwnerRegion:    "us-east-1",
		},
	}
	template = synthUnitWithPrior(t, cfg, "111111111111", "us-east-1", prior)
	template.ResourceCountIs(jsii.String("AWS::EC2::PrefixList"), jsii.Number(0))
}

func TestNetworkStackNameDerivation(t *testing.T) {
	assert.Equal(t, "LZNet-NetworkVpcStack-111111111111-us-east-1",
		config.NetworkStackName("LZNet", "111111111111", "us-east-1"))
}

func TestNetworkStackMixedAddressSpace(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		CentralNetworkServices: &netconfig.CentralNetworkServicesConfig{
			DelegatedAdminAccount: "network",
			Ipams: []netconfig.IpamConfig{
				{
					Name:   "OrgIpam",
					Region: "us-east-1",
					Pools: []netconfig.IpamPoolConfig{
						{Name: "shared-pool", ProvisionedCidrs: []string{"10.64.0.0/10"}},
					},
				},
			},
		},
		Vpcs: []netconfig.VpcConfig{
			{
				Name:            "Mixed",
				Account:         "network",
				Region:          "us-east-1",
				CidrBlocks:      []string{"10.0.0.0/16"},
				IpamAllocations: []netconfig.IpamAllocationConfig{{IpamPoolName: "shared-pool", NetmaskLength: 20}},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// The static block is the primary; the IPAM allocation still attaches
	// as a secondary association.
	template.HasResourceProperties(jsii.String("AWS::EC2::VPC"), map[string]interface{}{
		"CidrBlock": "10.0.0.0/16",
	})
	template.ResourceCountIs(jsii.String("AWS::EC2::VPCCidrBlock"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCCidrBlock"), map[string]interface{}{
		"Ipv4IpamPoolId":    assertions.Match_AnyValue(),
		"Ipv4NetmaskLength": 20,
	})
}

func TestNetworkStackTgwPrefixListRoute(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		TransitGateways: []netconfig.TransitGatewayConfig{
			{
				Name:    "CoreTgw",
				Account: "network",
				Region:  "us-east-1",
				RouteTables: []netconfig.TgwRouteTableConfig{
					{Name: "shared", Routes: []netconfig.TgwRouteEntryConfig{
						{DestinationPrefixList: "blocked", Blackhole: true},
					}},
				},
			},
		},
		PrefixLists: []netconfig.PrefixListConfig{
			{
				Name:       "blocked",
				Accounts:   []string{"network"},
				Regions:    []string{"us-east-1"},
				MaxEntries: 5,
				Entries:    []string{"198.51.100.0/24"},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// Prefix-list destinations use the reference resource, never a
	// destination-less CfnTransitGatewayRoute.
	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGatewayRoute"), jsii.Number(0))
	template.HasResourceProperties(jsii.String("AWS::EC2::TransitGatewayRouteTablePrefixListReference"), map[string]interface{}{
		"PrefixListId": assertions.Match_AnyValue(),
		"Blackhole":    true,
	})
}

func TestNetworkStackGatewayEndpointAbsorbsRoutes(t *testing.T) {
	vpc := netconfig.VpcConfig{
		Name:       "Data",
		Account:    "network",
		Region:     "us-east-1",
		CidrBlocks: []string{"10.5.0.0/16"},
		Subnets: []netconfig.SubnetConfig{
			{Name: "app-a", AvailabilityZone: "a", RouteTable: "main", Ipv4CidrBlock: "10.5.0.0/24"},
		},
		RouteTables: []netconfig.RouteTableConfig{
			{Name: "main", Routes: []netconfig.RouteTableEntryConfig{
				{Name: "s3-gw", Type: netconfig.RouteTargetGatewayEndpoint, Target: "s3"},
			}},
		},
		GatewayEndpoints: &netconfig.GatewayEndpointsConfig{Endpoints: []string{"s3"}},
	}
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{vpc},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// The endpoint carries the route table; no standalone route is emitted.
	template.ResourceCountIs(jsii.String("AWS::EC2::Route"), jsii.Number(0))
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCEndpoint"), map[string]interface{}{
		"VpcEndpointType": "Gateway",
		"ServiceName":     "com.amazonaws.us-east-1.s3",
		"RouteTableIds":   []interface{}{assertions.Match_AnyValue()},
	})
}

func TestNetworkStackIpamAllocatedSubnet(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		CentralNetworkServices: &netconfig.CentralNetworkServicesConfig{
			DelegatedAdminAccount: "network",
			Ipams: []netconfig.IpamConfig{
				{
					Name:   "OrgIpam",
					Region: "us-east-1",
					Pools: []netconfig.IpamPoolConfig{
						{Name: "shared-pool", ProvisionedCidrs: []string{"10.64.0.0/10"}},
					},
				},
			},
		},
		Vpcs: []netconfig.VpcConfig{
			{
				Name:       "Dyn",
				Account:    "network",
				Region:     "us-east-1",
				CidrBlocks: []string{"10.7.0.0/16"},
				Subnets: []netconfig.SubnetConfig{
					{
						Name:             "app-a",
						AvailabilityZone: "a",
						IpamAllocation:   &netconfig.IpamAllocationConfig{IpamPoolName: "shared-pool", NetmaskLength: 24},
					},
				},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	// The block is assigned at deploy time; the published CIDR parameter is
	// how other units (and later phases) learn it.
	template.HasResourceProperties(jsii.String("AWS::EC2::Subnet"), map[string]interface{}{
		"Ipv4IpamPoolId":    assertions.Match_AnyValue(),
		"Ipv4NetmaskLength": 24,
		"CidrBlock":         assertions.Match_Absent(),
	})
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name":  "/lznet/subnet/Dyn/app-a/cidr",
		"Value": assertions.Match_AnyValue(),
	})
}

func TestNetworkStackTemplateExclusionSuppressesTgwWiring(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts: []netconfig.AccountConfig{
			{Name: "network", ID: "111111111111", OrganizationalUnit: "Infrastructure"},
			{Name: "workload-a", ID: "222222222222", OrganizationalUnit: "Workloads"},
			{Name: "workload-b", ID: "333333333333", OrganizationalUnit: "Workloads"},
		},
		TransitGateways: []netconfig.TransitGatewayConfig{
			{
				Name:        "CoreTgw",
				Account:     "network",
				Region:      "us-east-1",
				RouteTables: []netconfig.TgwRouteTableConfig{{Name: "shared"}},
			},
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
				Subnets: []netconfig.SubnetConfig{
					{Name: "tgw-a", AvailabilityZone: "a", Ipv4CidrBlock: "10.3.0.0/28"},
				},
				TransitGatewayAttachments: []netconfig.TransitGatewayAttachmentConfig{
					{
						Name:                   "WorkloadToCore",
						TransitGateway:         netconfig.TransitGatewayAttachmentTarget{Name: "CoreTgw", Account: "network"},
						Subnets:                []string{"tgw-a"},
						RouteTableAssociations: []string{"shared"},
					},
				},
			},
		},
	}

	// The owner's unit wires associations only for the fanned-out accounts
	// that survive the exclusion list.
	template := synthUnit(t, cfg, "111111111111", "us-east-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGatewayRouteTableAssociation"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("Custom::GetNetworkSsmParameter"), jsii.Number(1))

	// The excluded account's own unit materializes nothing from the template.
	template = synthUnit(t, cfg, "333333333333", "us-east-1")
	template.ResourceCountIs(jsii.String("AWS::EC2::VPC"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::EC2::TransitGatewayAttachment"), jsii.Number(0))
}

func TestNetworkStackFirewallEndpointRouting(t *testing.T) {
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		CentralNetworkServices: &netconfig.CentralNetworkServicesConfig{
			DelegatedAdminAccount: "network",
			NetworkFirewall: &netconfig.NfwConfig{
				Policies: []netconfig.NfwPolicyConfig{
					{Name: "inspection", Regions: []string{"us-east-1"}},
				},
				Firewalls: []netconfig.NfwFirewallConfig{
					{Name: "hub-fw", FirewallPolicy: "inspection", Vpc: "Inspection", Subnets: []string{"fw-a", "fw-b"}},
				},
			},
		},
		Vpcs: []netconfig.VpcConfig{
			{
				Name:       "Inspection",
				Account:    "network",
				Region:     "us-east-1",
				CidrBlocks: []string{"10.8.0.0/16"},
				Subnets: []netconfig.SubnetConfig{
					{Name: "fw-a", AvailabilityZone: "a", Ipv4CidrBlock: "10.8.0.0/28"},
					{Name: "fw-b", AvailabilityZone: "b", Ipv4CidrBlock: "10.8.0.16/28"},
					{Name: "protected-a", AvailabilityZone: "a", RouteTable: "protected", Ipv4CidrBlock: "10.8.1.0/24"},
				},
				RouteTables: []netconfig.RouteTableConfig{
					{Name: "protected", Routes: []netconfig.RouteTableEntryConfig{
						{
							Name:                   "inspect-all",
							Destination:            "0.0.0.0/0",
							Type:                   netconfig.RouteTargetNetworkFirewall,
							Target:                 "hub-fw",
							TargetAvailabilityZone: "a",
						},
					}},
				},
			},
		},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	template.ResourceCountIs(jsii.String("AWS::NetworkFirewall::Firewall"), jsii.Number(1))

	// One zone lookup per firewall subnet; the attribute pair order is not
	// part of the service contract, so the id comes from the lookup.
	template.ResourceCountIs(jsii.String("Custom::NetworkFirewallEndpointLookup"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("Custom::NetworkFirewallEndpointLookup"), map[string]interface{}{
		"EndpointIds":      assertions.Match_AnyValue(),
		"AvailabilityZone": "us-east-1a",
	})
	template.HasResourceProperties(jsii.String("AWS::EC2::Route"), map[string]interface{}{
		"DestinationCidrBlock": "0.0.0.0/0",
		"VpcEndpointId":        assertions.Match_AnyValue(),
	})
}

func TestNetworkStackAlbTargetGroupIpRegistration(t *testing.T) {
	vpc := hubVpc()
	vpc.Subnets = append(vpc.Subnets, netconfig.SubnetConfig{
		Name: "public-b", AvailabilityZone: "b", RouteTable: "public", Ipv4CidrBlock: "10.0.2.0/24",
	})
	vpc.LoadBalancers = &netconfig.LoadBalancersConfig{
		ApplicationLoadBalancers: []netconfig.ApplicationLoadBalancerConfig{
			{Name: "app-alb", Scheme: "internal", Subnets: []string{"public-a", "public-b"}, SecurityGroups: []string{"web"}},
		},
		NetworkLoadBalancers: []netconfig.NetworkLoadBalancerConfig{
			{Name: "edge-nlb", Subnets: []string{"public-a"}, Listeners: []netconfig.NlbListenerConfig{
				{Name: "tcp80", Port: 80, Protocol: "TCP", TargetGroup: "alb-tg"},
			}},
		},
		TargetGroups: []netconfig.TargetGroupItemConfig{
			{Name: "alb-tg", Protocol: "TCP", Port: 80, Type: "alb", Targets: []string{"app-alb"}},
		},
	}
	cfg := &netconfig.NetworkConfig{
		HomeRegion: "us-east-1",
		Accounts:   baseAccounts(),
		Vpcs:       []netconfig.VpcConfig{vpc},
	}

	template := synthUnit(t, cfg, "111111111111", "us-east-1")

	template.ResourceCountIs(jsii.String("AWS::ElasticLoadBalancingV2::LoadBalancer"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("Custom::NlbIpAddressLookup"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("Custom::NlbIpAddressLookup"), map[string]interface{}{
		"DnsName": assertions.Match_AnyValue(),
	})
	template.HasResourceProperties(jsii.String("AWS::ElasticLoadBalancingV2::TargetGroup"), map[string]interface{}{
		"TargetType": "ip",
		"Targets": []interface{}{
			map[string]interface{}{"Id": assertions.Match_AnyValue(), "Port": 80},
			map[string]interface{}{"Id": assertions.Match_AnyValue(), "Port": 80},
		},
	})
}
