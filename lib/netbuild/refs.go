package netbuild

import (
	"github.com/accelera/lznet/lib/scope"
)

// Ref constructors. Each derives the owning account/region from the network
// configuration so callers never guess ownership.

// IpamPoolRef locates a pool under the central delegated-admin account, in
// the region of the IPAM that defines it.
func (c *Context) IpamPoolRef(poolName string) scope.NetworkResourceRef {
	central := c.Cfg.CentralNetworkServices
	if central == nil || central.DelegatedAdminAccount == "" {
		failf("ipam pool %s referenced but centralNetworkServices.delegatedAdminAccount is not configured", poolName)
	}
	for _, ipam := range central.Ipams {
		for _, pool := range ipam.Pools {
			if pool.Name == poolName {
				region := ipam.Region
				if pool.Locale != "" {
					region = pool.Locale
				}
				return scope.NetworkResourceRef{
					Kind:           scope.ResourceTypeIpamPool,
					ResourceName:   poolName,
					OwnerAccountID: c.MustAccountID(central.DelegatedAdminAccount),
					OwnerRegion:    region,
				}
			}
		}
	}
	failf("ipam pool %s is not defined in the network configuration", poolName)
	return scope.NetworkResourceRef{}
}

// TgwRef locates a transit gateway by its configured owner.
func (c *Context) TgwRef(name string) scope.NetworkResourceRef {
	for _, tgw := range c.Cfg.TransitGateways {
		if tgw.Name == name {
			return scope.NetworkResourceRef{
				Kind:           scope.ResourceTypeTransitGateway,
				ResourceName:   name,
				OwnerAccountID: c.MustAccountID(tgw.Account),
				OwnerRegion:    tgw.Region,
			}
		}
	}
	failf("transit gateway %s is not defined in the network configuration", name)
	return scope.NetworkResourceRef{}
}

// PrefixListRef builds a reference to a prefix list in the given owner
// account for the current region. Prefix lists deploy per account+region, so
// the owner decides whether resolution stays local.
func (c *Context) PrefixListRef(name, ownerAccountID, ownerRegion string) scope.NetworkResourceRef {
	for _, pl := range c.Cfg.PrefixLists {
		if pl.Name == name {
			return scope.NetworkResourceRef{
				Kind:           scope.ResourceTypePrefixList,
				ResourceName:   name,
				OwnerAccountID: ownerAccountID,
				OwnerRegion:    ownerRegion,
			}
		}
	}
	failf("prefix list %s is not defined in the network configuration", name)
	return scope.NetworkResourceRef{}
}

// VpcRefByName locates a static VPC's owner.
func (c *Context) VpcRefByName(vpcName string) scope.NetworkResourceRef {
	vpc, ok := c.Cfg.VpcByName(vpcName)
	if !ok {
		failf("vpc %s is not defined in the network configuration", vpcName)
	}
	return scope.NetworkResourceRef{
		VpcName:        vpcName,
		Kind:           scope.ResourceTypeVpc,
		OwnerAccountID: c.MustAccountID(vpc.Account),
		OwnerRegion:    vpc.Region,
	}
}

// SubnetRef locates a subnet inside a static VPC.
func (c *Context) SubnetRef(vpcName, subnetName string) scope.NetworkResourceRef {
	vpc, ok := c.Cfg.VpcByName(vpcName)
	if !ok {
		failf("subnet %s references vpc %s which is not defined", subnetName, vpcName)
	}
	return scope.NetworkResourceRef{
		VpcName:        vpcName,
		Kind:           scope.ResourceTypeSubnet,
		ResourceName:   subnetName,
		OwnerAccountID: c.MustAccountID(vpc.Account),
		OwnerRegion:    vpc.Region,
	}
}

// SubnetCidrRef addresses the published CIDR of a subnet, needed when the
// subnet is IPAM-allocated and its block is unknown at configuration time.
func (c *Context) SubnetCidrRef(vpcName, subnetName string) scope.NetworkResourceRef {
	ref := c.SubnetRef(vpcName, subnetName)
	ref.ResourceName = subnetName + "/cidr"
	return ref
}

// ResolverRuleRef locates a resolver rule under the delegated admin account.
func (c *Context) ResolverRuleRef(name string) scope.NetworkResourceRef {
	central := c.Cfg.CentralNetworkServices
	if central == nil || central.Route53Resolver == nil {
		failf("resolver rule %s referenced but no route53Resolver is configured", name)
	}
	for _, ep := range central.Route53Resolver.Endpoints {
		for _, rule := range ep.Rules {
			if rule.Name == name {
				vpc, ok := c.Cfg.VpcByName(ep.Vpc)
				if !ok {
					failf("resolver endpoint %s references vpc %s which is not defined", ep.Name, ep.Vpc)
				}
				return scope.NetworkResourceRef{
					Kind:           scope.ResourceTypeResolverRule,
					ResourceName:   name,
					OwnerAccountID: c.MustAccountID(central.DelegatedAdminAccount),
					OwnerRegion:    vpc.Region,
				}
			}
		}
	}
	failf("resolver rule %s is not defined in the network configuration", name)
	return scope.NetworkResourceRef{}
}

// DxGatewayRef locates a Direct Connect gateway. DX gateways are global but
// their identifiers publish in the owning account's home region.
func (c *Context) DxGatewayRef(name string) scope.NetworkResourceRef {
	for _, dx := range c.Cfg.DxGateways {
		if dx.Name == name {
			return scope.NetworkResourceRef{
				Kind:           scope.ResourceTypeDxGateway,
				ResourceName:   name,
				OwnerAccountID: c.MustAccountID(dx.Account),
				OwnerRegion:    c.Cfg.HomeRegion,
			}
		}
	}
	failf("direct connect gateway %s is not defined in the network configuration", name)
	return scope.NetworkResourceRef{}
}
