// Package scope decides which configured network resources belong to the
// deployment unit (account x region) currently being synthesized, and
// classifies every reference as local, cross-account or cross-region.
package scope

import (
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
)

// DeploymentUnit identifies one synthesis pass. All scope decisions compare
// a resource's owner against this triple.
type DeploymentUnit struct {
	AccountID string
	Region    string
	StackName string
}

// ResourceType names a referenceable network resource kind. The string value
// doubles as the identifier-store path segment and must never change for an
// existing installation.
type ResourceType string

const (
	ResourceTypeVpc              ResourceType = "vpc"
	ResourceTypeSubnet           ResourceType = "subnet"
	ResourceTypeRouteTable       ResourceType = "routeTable"
	ResourceTypeTransitGateway   ResourceType = "transitGateways"
	ResourceTypeTgwAttachment    ResourceType = "transitGatewayAttachments"
	ResourceTypeTgwRouteTable    ResourceType = "transitGatewayRouteTables"
	ResourceTypeSecurityGroup    ResourceType = "securityGroup"
	ResourceTypePrefixList       ResourceType = "prefixList"
	ResourceTypeIpamPool         ResourceType = "ipamPool"
	ResourceTypeNatGateway       ResourceType = "natGateway"
	ResourceTypeVpnConnection    ResourceType = "vpnConnection"
	ResourceTypeDxGateway        ResourceType = "dxGateway"
	ResourceTypeResolverRule     ResourceType = "resolverRule"
	ResourceTypeResolverEndpoint ResourceType = "resolverEndpoint"
	ResourceTypeQueryLogs        ResourceType = "queryLogs"
	ResourceTypeDnsFirewall      ResourceType = "dnsFirewall"
	ResourceTypeNetworkFirewall  ResourceType = "networkFirewall"
	ResourceTypeLoadBalancer     ResourceType = "loadBalancer"
	ResourceTypeTargetGroup      ResourceType = "targetGroup"
	ResourceTypePeering          ResourceType = "peering"
)

// ShareLabel returns the resource-type label used in RAM share names, e.g.
// "TransitGateway" for a share named "MyTgw_TransitGatewayShare".
func (t ResourceType) ShareLabel() string {
	switch t {
	case ResourceTypeTransitGateway:
		return "TransitGateway"
	case ResourceTypeSubnet:
		return "Subnet"
	case ResourceTypePrefixList:
		return "PrefixList"
	case ResourceTypeIpamPool:
		return "IpamPool"
	case ResourceTypeResolverRule:
		return "ResolverRule"
	case ResourceTypeQueryLogs:
		return "QueryLogs"
	case ResourceTypeDnsFirewall:
		return "DnsFirewall"
	default:
		return string(t)
	}
}

// RamResourceTypeString returns the AWS RAM resource type string used to
// locate a shared item inside a share, or "" for kinds AWS cannot share.
func (t ResourceType) RamResourceTypeString() string {
	switch t {
	case ResourceTypeTransitGateway:
		return "ec2:TransitGateway"
	case ResourceTypeSubnet:
		return "ec2:Subnet"
	case ResourceTypePrefixList:
		return "ec2:PrefixList"
	case ResourceTypeIpamPool:
		return "ec2:IpamPool"
	case ResourceTypeResolverRule:
		return "route53resolver:ResolverRule"
	case ResourceTypeDnsFirewall:
		return "route53resolver:FirewallRuleGroup"
	default:
		return ""
	}
}

// NetworkResourceRef identifies a creatable or referenceable network object.
// Immutable once derived from configuration.
type NetworkResourceRef struct {
	VpcName        string
	Kind           ResourceType
	ResourceName   string
	OwnerAccountID string
	OwnerRegion    string
}

// Class partitions references relative to a deployment unit.
type Class int

const (
	ClassLocal Class = iota
	ClassCrossAccount
	ClassCrossRegion
)

// Classify places a reference into exactly one class. Region difference
// dominates: a ref that crosses both account and region is ClassCrossRegion,
// because native resource shares are region-scoped and cannot serve it.
func Classify(ref NetworkResourceRef, unit DeploymentUnit) Class {
	switch {
	case ref.OwnerRegion != unit.Region:
		return ClassCrossRegion
	case ref.OwnerAccountID != unit.AccountID:
		return ClassCrossAccount
	default:
		return ClassLocal
	}
}

// IsLocal is the basic in-scope test.
func IsLocal(ref NetworkResourceRef, unit DeploymentUnit) bool {
	return Classify(ref, unit) == ClassLocal
}

// VpcInScope pairs a VpcLike with the account that owns this instantiation
// of it. For static VPCs OwnerAccountName is the configured account; for
// templated VPCs it is one of the expanded deployment-target accounts.
type VpcInScope struct {
	Config           netconfig.VpcLike
	OwnerAccountName string
	OwnerAccountID   string
	Region           string
}

// Filter computes the in-scope resource subsets for one deployment unit.
type Filter struct {
	cfg        *netconfig.NetworkConfig
	ouAccounts map[string][]string
}

func NewFilter(cfg *netconfig.NetworkConfig, ouAccounts map[string][]string) *Filter {
	return &Filter{cfg: cfg, ouAccounts: ouAccounts}
}

// VpcsInScope returns every VPC this unit must materialize: static VPCs whose
// owner matches, plus templated VPCs whose expanded targets include the
// unit's account in the template's region.
func (f *Filter) VpcsInScope(unit DeploymentUnit) []VpcInScope {
	var out []VpcInScope

	for i := range f.cfg.Vpcs {
		vpc := f.cfg.Vpcs[i]
		id, ok := f.cfg.AccountID(vpc.Account)
		if !ok || id != unit.AccountID || vpc.Region != unit.Region {
			continue
		}
		out = append(out, VpcInScope{
			Config:           vpc,
			OwnerAccountName: vpc.Account,
			OwnerAccountID:   id,
			Region:           vpc.Region,
		})
	}

	for i := range f.cfg.VpcTemplates {
		tpl := f.cfg.VpcTemplates[i]
		if tpl.Region != unit.Region {
			continue
		}
		if !netconfig.TargetsRegion(tpl.DeploymentTargets, unit.Region) {
			continue
		}
		for _, accountName := range netconfig.ExpandDeploymentTargets(tpl.DeploymentTargets, f.ouAccounts) {
			id, ok := f.cfg.AccountID(accountName)
			if !ok || id != unit.AccountID {
				continue
			}
			out = append(out, VpcInScope{
				Config:           tpl,
				OwnerAccountName: accountName,
				OwnerAccountID:   id,
				Region:           tpl.Region,
			})
		}
	}

	return out
}

// TgwsInScope returns the transit gateways owned by this unit.
func (f *Filter) TgwsInScope(unit DeploymentUnit) []netconfig.TransitGatewayConfig {
	return lo.Filter(f.cfg.TransitGateways, func(tgw netconfig.TransitGatewayConfig, _ int) bool {
		id, ok := f.cfg.AccountID(tgw.Account)
		return ok && id == unit.AccountID && tgw.Region == unit.Region
	})
}

// SharedVpcs returns VPCs owned by this unit that carry at least one subnet
// share target outside the owning account; those are the VPCs for which this
// unit must run the sharing side.
func (f *Filter) SharedVpcs(unit DeploymentUnit) []VpcInScope {
	return lo.Filter(f.VpcsInScope(unit), func(v VpcInScope, _ int) bool {
		for _, subnet := range v.Config.SubnetConfigs() {
			for _, target := range netconfig.ShareAccounts(subnet.ShareTargets, f.ouAccounts) {
				if target != v.OwnerAccountName {
					return true
				}
			}
		}
		return false
	})
}

// OwnerRef builds the reference for a resource inside an in-scope VPC.
func (v VpcInScope) OwnerRef(kind ResourceType, resourceName string) NetworkResourceRef {
	return NetworkResourceRef{
		VpcName:        v.Config.VpcName(),
		Kind:           kind,
		ResourceName:   resourceName,
		OwnerAccountID: v.OwnerAccountID,
		OwnerRegion:    v.Region,
	}
}
