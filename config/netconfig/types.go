// Package netconfig holds the validated network configuration model consumed
// by the synthesis engine. The schema mirrors the operator-facing YAML
// document; everything here is read-only once loaded.
package netconfig

// VpcKind discriminates the VpcConfig / VpcTemplatesConfig union.
type VpcKind string

const (
	VpcKindStatic   VpcKind = "vpc"
	VpcKindTemplate VpcKind = "vpcTemplate"
)

// VpcLike is the common surface of VpcConfig and VpcTemplatesConfig. Builders
// switch on Kind() rather than probing shapes.
type VpcLike interface {
	Kind() VpcKind
	VpcName() string
	SubnetConfigs() []SubnetConfig
	RouteTableConfigs() []RouteTableConfig
	SecurityGroupConfigs() []SecurityGroupConfig
	NatGatewayConfigs() []NatGatewayConfig
	TgwAttachmentConfigs() []TransitGatewayAttachmentConfig
}

// AccountConfig maps a friendly account name to its AWS account id.
type AccountConfig struct {
	Name  string `yaml:"name" validate:"required"`
	ID    string `yaml:"id" validate:"required,len=12,numeric"`
	Email string `yaml:"email,omitempty"`
	// OrganizationalUnit places the account for OU-based targeting.
	OrganizationalUnit string `yaml:"organizationalUnit,omitempty"`
}

// DeploymentTargets selects the accounts (and optionally regions) a templated
// entity fans out to. ExcludedAccounts always wins over an inclusion.
type DeploymentTargets struct {
	Accounts            []string `yaml:"accounts,omitempty"`
	OrganizationalUnits []string `yaml:"organizationalUnits,omitempty"`
	ExcludedAccounts    []string `yaml:"excludedAccounts,omitempty"`
	ExcludedRegions     []string `yaml:"excludedRegions,omitempty"`
}

// ShareTargets selects the accounts a resource is RAM-shared to.
type ShareTargets struct {
	Accounts            []string `yaml:"accounts,omitempty"`
	OrganizationalUnits []string `yaml:"organizationalUnits,omitempty"`
}

// Empty reports whether no share target is configured.
func (s ShareTargets) Empty() bool {
	return len(s.Accounts) == 0 && len(s.OrganizationalUnits) == 0
}

type IpamAllocationConfig struct {
	IpamPoolName  string `yaml:"ipamPoolName" validate:"required"`
	NetmaskLength int    `yaml:"netmaskLength" validate:"required,min=16,max=28"`
}

type VpcConfig struct {
	Name                      string                           `yaml:"name" validate:"required"`
	Account                   string                           `yaml:"account" validate:"required"`
	Region                    string                           `yaml:"region" validate:"required"`
	CidrBlocks                []string                         `yaml:"cidrs,omitempty"`
	IpamAllocations           []IpamAllocationConfig           `yaml:"ipamAllocations,omitempty"`
	InternetGateway           bool                             `yaml:"internetGateway,omitempty"`
	EnableDnsHostnames        bool                             `yaml:"enableDnsHostnames,omitempty"`
	EnableDnsSupport          bool                             `yaml:"enableDnsSupport,omitempty"`
	InstanceTenancy           string                           `yaml:"instanceTenancy,omitempty"`
	Subnets                   []SubnetConfig                   `yaml:"subnets,omitempty"`
	RouteTables               []RouteTableConfig               `yaml:"routeTables,omitempty"`
	SecurityGroups            []SecurityGroupConfig            `yaml:"securityGroups,omitempty"`
	NetworkAcls               []NetworkAclConfig               `yaml:"networkAcls,omitempty"`
	NatGateways               []NatGatewayConfig               `yaml:"natGateways,omitempty"`
	TransitGatewayAttachments []TransitGatewayAttachmentConfig `yaml:"transitGatewayAttachments,omitempty"`
	VirtualPrivateGateway     *VirtualPrivateGatewayConfig     `yaml:"virtualPrivateGateway,omitempty"`
	GatewayEndpoints          *GatewayEndpointsConfig          `yaml:"gatewayEndpoints,omitempty"`
	InterfaceEndpoints        *InterfaceEndpointsConfig        `yaml:"interfaceEndpoints,omitempty"`
	LoadBalancers             *LoadBalancersConfig             `yaml:"loadBalancers,omitempty"`
	DnsFirewallRuleGroups     []DnsFirewallAssociationConfig   `yaml:"dnsFirewallRuleGroups,omitempty"`
	QueryLogs                 []string                         `yaml:"queryLogs,omitempty"`
	ResolverRules             []string                         `yaml:"resolverRules,omitempty"`
}

func (v VpcConfig) Kind() VpcKind { return VpcKindStatic }
func (v VpcConfig) VpcName() string { return v.Name }
func (v VpcConfig) SubnetConfigs() []SubnetConfig { return v.Subnets }
func (v VpcConfig) RouteTableConfigs() []RouteTableConfig { return v.RouteTables }
func (v VpcConfig) SecurityGroupConfigs() []SecurityGroupConfig { return v.SecurityGroups }
func (v VpcConfig) NatGatewayConfigs() []NatGatewayConfig { return v.NatGateways }
func (v VpcConfig) TgwAttachmentConfigs() []TransitGatewayAttachmentConfig {
	return v.TransitGatewayAttachments
}

// VpcTemplatesConfig fans one VPC definition out to every account selected by
// its deployment targets. Each produced VPC is owned by (account, Region).
type VpcTemplatesConfig struct {
	Name                      string                           `yaml:"name" validate:"required"`
	Region                    string                           `yaml:"region" validate:"required"`
	DeploymentTargets         DeploymentTargets                `yaml:"deploymentTargets"`
	CidrBlocks                []string                         `yaml:"cidrs,omitempty"`
	IpamAllocations           []IpamAllocationConfig           `yaml:"ipamAllocations,omitempty"`
	InternetGateway           bool                             `yaml:"internetGateway,omitempty"`
	EnableDnsHostnames        bool                             `yaml:"enableDnsHostnames,omitempty"`
	EnableDnsSupport          bool                             `yaml:"enableDnsSupport,omitempty"`
	Subnets                   []SubnetConfig                   `yaml:"subnets,omitempty"`
	RouteTables               []RouteTableConfig               `yaml:"routeTables,omitempty"`
	SecurityGroups            []SecurityGroupConfig            `yaml:"securityGroups,omitempty"`
	NatGateways               []NatGatewayConfig               `yaml:"natGateways,omitempty"`
	TransitGatewayAttachments []TransitGatewayAttachmentConfig `yaml:"transitGatewayAttachments,omitempty"`
}

func (v VpcTemplatesConfig) Kind() VpcKind { return VpcKindTemplate }
func (v VpcTemplatesConfig) VpcName() string { return v.Name }
func (v VpcTemplatesConfig) SubnetConfigs() []SubnetConfig { return v.Subnets }
func (v VpcTemplatesConfig) RouteTableConfigs() []RouteTableConfig { return v.RouteTables }
func (v VpcTemplatesConfig) SecurityGroupConfigs() []SecurityGroupConfig {
	return v.SecurityGroups
}
func (v VpcTemplatesConfig) NatGatewayConfigs() []NatGatewayConfig { return v.NatGateways }
func (v VpcTemplatesConfig) TgwAttachmentConfigs() []TransitGatewayAttachmentConfig {
	return v.TransitGatewayAttachments
}

type SubnetConfig struct {
	Name             string                `yaml:"name" validate:"required"`
	AvailabilityZone string                `yaml:"availabilityZone,omitempty"`
	RouteTable       string                `yaml:"routeTable,omitempty"`
	Ipv4CidrBlock    string                `yaml:"ipv4CidrBlock,omitempty"`
	IpamAllocation   *IpamAllocationConfig `yaml:"ipamAllocation,omitempty"`
	MapPublicIp      bool                  `yaml:"mapPublicIpOnLaunch,omitempty"`
	ShareTargets     ShareTargets          `yaml:"shareTargets,omitempty"`
}

// RouteTargetKind discriminates a route entry's target variant.
type RouteTargetKind string

const (
	RouteTargetTransitGateway        RouteTargetKind = "transitGateway"
	RouteTargetNatGateway            RouteTargetKind = "natGateway"
	RouteTargetInternetGateway       RouteTargetKind = "internetGateway"
	RouteTargetVirtualPrivateGateway RouteTargetKind = "virtualPrivateGateway"
	RouteTargetLocalGateway          RouteTargetKind = "localGateway"
	RouteTargetVpcPeering            RouteTargetKind = "vpcPeering"
	RouteTargetNetworkFirewall       RouteTargetKind = "networkFirewall"
	RouteTargetGatewayEndpoint       RouteTargetKind = "gatewayEndpoint"
)

type RouteTableEntryConfig struct {
	Name                   string          `yaml:"name" validate:"required"`
	Destination            string          `yaml:"destination,omitempty"`
	DestinationPrefixList  string          `yaml:"destinationPrefixList,omitempty"`
	Type                   RouteTargetKind `yaml:"type,omitempty"`
	Target                 string          `yaml:"target,omitempty"`
	TargetAvailabilityZone string          `yaml:"targetAvailabilityZone,omitempty"`
}

type RouteTableConfig struct {
	Name   string                  `yaml:"name" validate:"required"`
	Routes []RouteTableEntryConfig `yaml:"routes,omitempty"`
}

// SourceKind discriminates a security group rule source variant.
type SourceKind string

const (
	SourceKindCidr          SourceKind = "cidr"
	SourceKindSubnet        SourceKind = "subnet"
	SourceKindSecurityGroup SourceKind = "securityGroup"
	SourceKindPrefixList    SourceKind = "prefixList"
)

// SecurityGroupSource is one entry of a rule's mixed source list. Exactly one
// variant is populated; Kind() names it.
type SecurityGroupSource struct {
	Cidr           string   `yaml:"cidr,omitempty"`
	Account        string   `yaml:"account,omitempty"`
	Vpc            string   `yaml:"vpc,omitempty"`
	Subnets        []string `yaml:"subnets,omitempty"`
	SecurityGroups []string `yaml:"securityGroups,omitempty"`
	PrefixLists    []string `yaml:"prefixLists,omitempty"`
}

func (s SecurityGroupSource) Kind() SourceKind {
	switch {
	case len(s.SecurityGroups) > 0:
		return SourceKindSecurityGroup
	case len(s.PrefixLists) > 0:
		return SourceKindPrefixList
	case len(s.Subnets) > 0:
		return SourceKindSubnet
	default:
		return SourceKindCidr
	}
}

// UnmarshalYAML accepts either a bare CIDR string or a mapping with one of
// the structured variants.
func (s *SecurityGroupSource) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var cidr string
	if err := unmarshal(&cidr); err == nil {
		s.Cidr = cidr
		return nil
	}

	type plain SecurityGroupSource
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*s = SecurityGroupSource(p)
	return nil
}

type SecurityGroupRuleConfig struct {
	Description string                `yaml:"description,omitempty"`
	Types       []string              `yaml:"types,omitempty"`
	TcpPorts    []int                 `yaml:"tcpPorts,omitempty"`
	UdpPorts    []int                 `yaml:"udpPorts,omitempty"`
	FromPort    int                   `yaml:"fromPort,omitempty"`
	ToPort      int                   `yaml:"toPort,omitempty"`
	Sources     []SecurityGroupSource `yaml:"sources" validate:"required,min=1"`
}

type SecurityGroupConfig struct {
	Name          string                    `yaml:"name" validate:"required"`
	Description   string                    `yaml:"description,omitempty"`
	InboundRules  []SecurityGroupRuleConfig `yaml:"inboundRules,omitempty"`
	OutboundRules []SecurityGroupRuleConfig `yaml:"outboundRules,omitempty"`
}

// NetworkAclSubnetSelection points an ACL entry at a subnet, possibly in a
// different account/region. The CIDR is resolved at deploy time when the
// subnet is IPAM-allocated.
type NetworkAclSubnetSelection struct {
	Account string `yaml:"account,omitempty"`
	Region  string `yaml:"region,omitempty"`
	Vpc     string `yaml:"vpc" validate:"required"`
	Subnet  string `yaml:"subnet" validate:"required"`
}

// NetworkAclSourceDest is either a literal CIDR or a subnet selection.
type NetworkAclSourceDest struct {
	Cidr   string                     `yaml:"cidr,omitempty"`
	Subnet *NetworkAclSubnetSelection `yaml:"subnet,omitempty"`
}

func (n *NetworkAclSourceDest) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var cidr string
	if err := unmarshal(&cidr); err == nil {
		n.Cidr = cidr
		return nil
	}

	type plain NetworkAclSourceDest
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*n = NetworkAclSourceDest(p)
	return nil
}

type NetworkAclEntryConfig struct {
	Rule        int                   `yaml:"rule" validate:"required"`
	Protocol    int                   `yaml:"protocol"`
	FromPort    int                   `yaml:"fromPort,omitempty"`
	ToPort      int                   `yaml:"toPort,omitempty"`
	Action      string                `yaml:"action" validate:"required,oneof=allow deny"`
	Source      *NetworkAclSourceDest `yaml:"source,omitempty"`
	Destination *NetworkAclSourceDest `yaml:"destination,omitempty"`
}

type NetworkAclConfig struct {
	Name          string                  `yaml:"name" validate:"required"`
	Subnets       []string                `yaml:"subnetAssociations,omitempty"`
	InboundRules  []NetworkAclEntryConfig `yaml:"inboundRules,omitempty"`
	OutboundRules []NetworkAclEntryConfig `yaml:"outboundRules,omitempty"`
}

type NatGatewayConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Subnet  string `yaml:"subnet" validate:"required"`
	Private bool   `yaml:"private,omitempty"`
}

type TransitGatewayAttachmentTarget struct {
	Name    string `yaml:"name" validate:"required"`
	Account string `yaml:"account" validate:"required"`
}

type TransitGatewayAttachmentOptions struct {
	ApplianceModeSupport string `yaml:"applianceModeSupport,omitempty"`
	DnsSupport           string `yaml:"dnsSupport,omitempty"`
	Ipv6Support          string `yaml:"ipv6Support,omitempty"`
}

type TransitGatewayAttachmentConfig struct {
	Name                   string                           `yaml:"name" validate:"required"`
	TransitGateway         TransitGatewayAttachmentTarget   `yaml:"transitGateway" validate:"required"`
	Subnets                []string                         `yaml:"subnets" validate:"required,min=1"`
	RouteTableAssociations []string                         `yaml:"routeTableAssociations,omitempty"`
	RouteTablePropagations []string                         `yaml:"routeTablePropagations,omitempty"`
	Options                *TransitGatewayAttachmentOptions `yaml:"options,omitempty"`
}

type VirtualPrivateGatewayConfig struct {
	Asn int `yaml:"asn,omitempty"`
}

type GatewayEndpointsConfig struct {
	DefaultPolicy string   `yaml:"defaultPolicy,omitempty"`
	Endpoints     []string `yaml:"endpoints" validate:"required,min=1,dive,oneof=s3 dynamodb"`
}

type InterfaceEndpointsConfig struct {
	Central   bool     `yaml:"central,omitempty"`
	Subnets   []string `yaml:"subnets" validate:"required,min=1"`
	Endpoints []string `yaml:"endpoints" validate:"required,min=1"`
}

// TgwRouteEntryConfig is a transit gateway route table route. Blackhole
// routes carry no attachment; attachment routes name the attached VPC or
// peering by (vpcName, account).
type TgwRouteEntryConfig struct {
	DestinationCidrBlock  string                          `yaml:"destinationCidrBlock,omitempty"`
	DestinationPrefixList string                          `yaml:"destinationPrefixList,omitempty"`
	Blackhole             bool                            `yaml:"blackhole,omitempty"`
	Attachment            *TransitGatewayAttachmentTarget `yaml:"attachment,omitempty"`
}

type TgwRouteTableConfig struct {
	Name   string                `yaml:"name" validate:"required"`
	Routes []TgwRouteEntryConfig `yaml:"routes,omitempty"`
}

type TransitGatewayConfig struct {
	Name                         string                `yaml:"name" validate:"required"`
	Account                      string                `yaml:"account" validate:"required"`
	Region                       string                `yaml:"region" validate:"required"`
	Asn                          int                   `yaml:"asn,omitempty"`
	DnsSupport                   string                `yaml:"dnsSupport,omitempty"`
	VpnEcmpSupport               string                `yaml:"vpnEcmpSupport,omitempty"`
	DefaultRouteTableAssociation string                `yaml:"defaultRouteTableAssociation,omitempty"`
	DefaultRouteTablePropagation string                `yaml:"defaultRouteTablePropagation,omitempty"`
	RouteTables                  []TgwRouteTableConfig `yaml:"routeTables,omitempty"`
	ShareTargets                 ShareTargets          `yaml:"shareTargets,omitempty"`
}

type DxTransitGatewayAssociationConfig struct {
	Name                   string   `yaml:"name" validate:"required"`
	Account                string   `yaml:"account" validate:"required"`
	AllowedPrefixes        []string `yaml:"allowedPrefixes" validate:"required,min=1"`
	RouteTableAssociations []string `yaml:"routeTableAssociations,omitempty"`
	RouteTablePropagations []string `yaml:"routeTablePropagations,omitempty"`
}

type DxGatewayConfig struct {
	Name                       string                              `yaml:"name" validate:"required"`
	Account                    string                              `yaml:"account" validate:"required"`
	Asn                        int                                 `yaml:"asn" validate:"required"`
	GatewayName                string                              `yaml:"gatewayName" validate:"required"`
	TransitGatewayAssociations []DxTransitGatewayAssociationConfig `yaml:"transitGatewayAssociations,omitempty"`
}

type VpnTunnelOptionsConfig struct {
	PreSharedKey     string `yaml:"preSharedKey,omitempty"`
	TunnelInsideCidr string `yaml:"tunnelInsideCidr,omitempty"`
}

type VpnConnectionConfig struct {
	Name                   string                   `yaml:"name" validate:"required"`
	TransitGateway         string                   `yaml:"transitGateway,omitempty"`
	Vpc                    string                   `yaml:"vpc,omitempty"`
	StaticRoutesOnly       bool                     `yaml:"staticRoutesOnly,omitempty"`
	RouteTableAssociations []string                 `yaml:"routeTableAssociations,omitempty"`
	RouteTablePropagations []string                 `yaml:"routeTablePropagations,omitempty"`
	TunnelSpecifications   []VpnTunnelOptionsConfig `yaml:"tunnelSpecifications,omitempty"`
}

type CustomerGatewayConfig struct {
	Name           string                `yaml:"name" validate:"required"`
	Account        string                `yaml:"account" validate:"required"`
	Region         string                `yaml:"region" validate:"required"`
	IpAddress      string                `yaml:"ipAddress" validate:"required"`
	Asn            int                   `yaml:"asn" validate:"required"`
	VpnConnections []VpnConnectionConfig `yaml:"vpnConnections,omitempty"`
}

type IpamPoolConfig struct {
	Name             string       `yaml:"name" validate:"required"`
	AddressFamily    string       `yaml:"addressFamily,omitempty"`
	ProvisionedCidrs []string     `yaml:"provisionedCidrs,omitempty"`
	Locale           string       `yaml:"locale,omitempty"`
	SourceIpamPool   string       `yaml:"sourceIpamPool,omitempty"`
	ShareTargets     ShareTargets `yaml:"shareTargets,omitempty"`
}

type IpamConfig struct {
	Name             string           `yaml:"name" validate:"required"`
	Region           string           `yaml:"region" validate:"required"`
	OperatingRegions []string         `yaml:"operatingRegions,omitempty"`
	Pools            []IpamPoolConfig `yaml:"pools,omitempty"`
}

type ResolverRuleConfig struct {
	Name         string       `yaml:"name" validate:"required"`
	DomainName   string       `yaml:"domainName" validate:"required"`
	TargetIps    []string     `yaml:"targetIps,omitempty"`
	RuleType     string       `yaml:"ruleType,omitempty"`
	ShareTargets ShareTargets `yaml:"shareTargets,omitempty"`
}

type ResolverEndpointConfig struct {
	Name         string               `yaml:"name" validate:"required"`
	Type         string               `yaml:"type" validate:"required,oneof=INBOUND OUTBOUND"`
	Vpc          string               `yaml:"vpc" validate:"required"`
	Subnets      []string             `yaml:"subnets" validate:"required,min=1"`
	AllowedCidrs []string             `yaml:"allowedCidrs,omitempty"`
	Rules        []ResolverRuleConfig `yaml:"rules,omitempty"`
}

type DnsQueryLogsConfig struct {
	Name         string       `yaml:"name" validate:"required"`
	Destinations []string     `yaml:"destinations" validate:"required,min=1,dive,oneof=s3 cloud-watch-logs"`
	ShareTargets ShareTargets `yaml:"shareTargets,omitempty"`
}

type DnsFirewallRuleConfig struct {
	Name              string   `yaml:"name" validate:"required"`
	Action            string   `yaml:"action" validate:"required,oneof=ALLOW ALERT BLOCK"`
	Priority          int      `yaml:"priority" validate:"required"`
	ManagedDomainList string   `yaml:"managedDomainList,omitempty"`
	CustomDomains     []string `yaml:"customDomainList,omitempty"`
	BlockResponse     string   `yaml:"blockResponse,omitempty"`
}

type DnsFirewallRuleGroupConfig struct {
	Name         string                  `yaml:"name" validate:"required"`
	Regions      []string                `yaml:"regions" validate:"required,min=1"`
	Rules        []DnsFirewallRuleConfig `yaml:"rules,omitempty"`
	ShareTargets ShareTargets            `yaml:"shareTargets,omitempty"`
}

// DnsFirewallAssociationConfig attaches a rule group to a VPC by name.
type DnsFirewallAssociationConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Priority int    `yaml:"priority" validate:"required"`
}

type ResolverConfig struct {
	Endpoints          []ResolverEndpointConfig     `yaml:"endpoints,omitempty"`
	QueryLogs          *DnsQueryLogsConfig          `yaml:"queryLogs,omitempty"`
	FirewallRuleGroups []DnsFirewallRuleGroupConfig `yaml:"firewallRuleGroups,omitempty"`
}

type NfwFirewallConfig struct {
	Name             string   `yaml:"name" validate:"required"`
	FirewallPolicy   string   `yaml:"firewallPolicy" validate:"required"`
	Vpc              string   `yaml:"vpc" validate:"required"`
	Subnets          []string `yaml:"subnets" validate:"required,min=1"`
	DeleteProtection bool     `yaml:"deleteProtection,omitempty"`
}

type NfwPolicyConfig struct {
	Name                            string       `yaml:"name" validate:"required"`
	Regions                         []string     `yaml:"regions" validate:"required,min=1"`
	StatelessDefaultActions         []string     `yaml:"statelessDefaultActions,omitempty"`
	StatelessFragmentDefaultActions []string     `yaml:"statelessFragmentDefaultActions,omitempty"`
	ShareTargets                    ShareTargets `yaml:"shareTargets,omitempty"`
}

type NfwConfig struct {
	Firewalls []NfwFirewallConfig `yaml:"firewalls,omitempty"`
	Policies  []NfwPolicyConfig   `yaml:"policies,omitempty"`
}

type CentralNetworkServicesConfig struct {
	DelegatedAdminAccount string          `yaml:"delegatedAdminAccount,omitempty"`
	Ipams                 []IpamConfig    `yaml:"ipams,omitempty"`
	Route53Resolver       *ResolverConfig `yaml:"route53Resolver,omitempty"`
	NetworkFirewall       *NfwConfig      `yaml:"networkFirewall,omitempty"`
}

// PrefixListConfig uses either the legacy accounts+regions targeting or
// deploymentTargets; configuring both is a structural error.
type PrefixListConfig struct {
	Name              string             `yaml:"name" validate:"required"`
	Accounts          []string           `yaml:"accounts,omitempty"`
	Regions           []string           `yaml:"regions,omitempty"`
	DeploymentTargets *DeploymentTargets `yaml:"deploymentTargets,omitempty"`
	AddressFamily     string             `yaml:"addressFamily,omitempty"`
	MaxEntries        int                `yaml:"maxEntries" validate:"required,min=1"`
	Entries           []string           `yaml:"entries" validate:"required,min=1"`
}

// VpcPeeringConfig names exactly two VPCs; the first is the requester.
type VpcPeeringConfig struct {
	Name string   `yaml:"name" validate:"required"`
	Vpcs []string `yaml:"vpcs" validate:"required,len=2"`
}

// TargetGroupItemConfig is a load balancer target group. Type "alb" targets
// application load balancers in the same VPC and requires their IP addresses
// to be looked up at deploy time.
type TargetGroupItemConfig struct {
	Name     string   `yaml:"name" validate:"required"`
	Protocol string   `yaml:"protocol" validate:"required"`
	Port     int      `yaml:"port" validate:"required"`
	Type     string   `yaml:"type" validate:"required,oneof=instance ip alb lambda"`
	Targets  []string `yaml:"targets,omitempty"`
}

type AlbListenerConfig struct {
	Name           string `yaml:"name" validate:"required"`
	Port           int    `yaml:"port" validate:"required"`
	Protocol       string `yaml:"protocol" validate:"required,oneof=HTTP HTTPS"`
	CertificateArn string `yaml:"certificate,omitempty"`
	SslPolicy      string `yaml:"sslPolicy,omitempty"`
	TargetGroup    string `yaml:"targetGroup" validate:"required"`
}

type NlbListenerConfig struct {
	Name           string `yaml:"name" validate:"required"`
	Port           int    `yaml:"port" validate:"required"`
	Protocol       string `yaml:"protocol" validate:"required,oneof=TCP UDP TLS TCP_UDP"`
	CertificateArn string `yaml:"certificate,omitempty"`
	AlpnPolicy     string `yaml:"alpnPolicy,omitempty"`
	TargetGroup    string `yaml:"targetGroup" validate:"required"`
}

type ApplicationLoadBalancerConfig struct {
	Name           string              `yaml:"name" validate:"required"`
	Scheme         string              `yaml:"scheme,omitempty"`
	Subnets        []string            `yaml:"subnets" validate:"required,min=2"`
	SecurityGroups []string            `yaml:"securityGroups" validate:"required,min=1"`
	Listeners      []AlbListenerConfig `yaml:"listeners,omitempty"`
}

type NetworkLoadBalancerConfig struct {
	Name               string              `yaml:"name" validate:"required"`
	Scheme             string              `yaml:"scheme,omitempty"`
	Subnets            []string            `yaml:"subnets" validate:"required,min=1"`
	CrossZoneBalancing bool                `yaml:"crossZoneBalancing,omitempty"`
	Listeners          []NlbListenerConfig `yaml:"listeners,omitempty"`
}

type LoadBalancersConfig struct {
	ApplicationLoadBalancers []ApplicationLoadBalancerConfig `yaml:"applicationLoadBalancers,omitempty"`
	NetworkLoadBalancers     []NetworkLoadBalancerConfig     `yaml:"networkLoadBalancers,omitempty"`
	TargetGroups             []TargetGroupItemConfig         `yaml:"targetGroups,omitempty"`
}

// NetworkConfig is the root document.
type NetworkConfig struct {
	HomeRegion             string                        `yaml:"homeRegion" validate:"required"`
	EnabledRegions         []string                      `yaml:"enabledRegions,omitempty"`
	Accounts               []AccountConfig               `yaml:"accounts" validate:"required,min=1,dive"`
	Vpcs                   []VpcConfig                   `yaml:"vpcs,omitempty"`
	VpcTemplates           []VpcTemplatesConfig          `yaml:"vpcTemplates,omitempty"`
	TransitGateways        []TransitGatewayConfig        `yaml:"transitGateways,omitempty"`
	DxGateways             []DxGatewayConfig             `yaml:"directConnectGateways,omitempty"`
	CustomerGateways       []CustomerGatewayConfig       `yaml:"customerGateways,omitempty"`
	CentralNetworkServices *CentralNetworkServicesConfig `yaml:"centralNetworkServices,omitempty"`
	PrefixLists            []PrefixListConfig            `yaml:"prefixLists,omitempty"`
	VpcPeerings            []VpcPeeringConfig            `yaml:"vpcPeering,omitempty"`
}

// AccountID resolves a friendly account name. The bool reports existence.
func (c *NetworkConfig) AccountID(name string) (string, bool) {
	for _, a := range c.Accounts {
		if a.Name == name {
			return a.ID, true
		}
	}
	return "", false
}

// OuAccountsMap groups account names by their organizational unit.
func (c *NetworkConfig) OuAccountsMap() map[string][]string {
	out := make(map[string][]string)
	for _, a := range c.Accounts {
		if a.OrganizationalUnit != "" {
			out[a.OrganizationalUnit] = append(out[a.OrganizationalUnit], a.Name)
		}
	}
	return out
}

// VpcByName finds a static VPC by its configured name.
func (c *NetworkConfig) VpcByName(name string) (*VpcConfig, bool) {
	for i := range c.Vpcs {
		if c.Vpcs[i].Name == name {
			return &c.Vpcs[i], true
		}
	}
	return nil, false
}
