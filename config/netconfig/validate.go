package netconfig

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate runs struct-tag validation plus the structural rules that cannot
// be expressed as tags. All failures carry the offending resource name so the
// operator can locate the configuration line.
func Validate(cfg *NetworkConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("network config validation: %w", err)
	}

	for _, pl := range cfg.PrefixLists {
		if len(pl.Accounts) > 0 && pl.DeploymentTargets != nil {
			return fmt.Errorf("prefix list %s: accounts and deploymentTargets are mutually exclusive", pl.Name)
		}
		if len(pl.Accounts) == 0 && pl.DeploymentTargets == nil {
			return fmt.Errorf("prefix list %s: one of accounts or deploymentTargets is required", pl.Name)
		}
	}

	if cfg.CentralNetworkServices != nil && cfg.CentralNetworkServices.Route53Resolver != nil {
		for _, ep := range cfg.CentralNetworkServices.Route53Resolver.Endpoints {
			if ep.Type == "INBOUND" && len(ep.Rules) > 0 {
				return fmt.Errorf("resolver endpoint %s: INBOUND endpoints cannot define rules", ep.Name)
			}
			if ep.Type == "OUTBOUND" {
				for _, rule := range ep.Rules {
					if len(rule.TargetIps) == 0 {
						return fmt.Errorf("resolver endpoint %s: rule %s has no target IPs", ep.Name, rule.Name)
					}
				}
			}
		}
	}

	if cfg.CentralNetworkServices != nil && cfg.CentralNetworkServices.Route53Resolver != nil {
		for _, group := range cfg.CentralNetworkServices.Route53Resolver.FirewallRuleGroups {
			for _, rule := range group.Rules {
				managed := rule.ManagedDomainList != ""
				custom := len(rule.CustomDomains) > 0
				if managed == custom {
					return fmt.Errorf("dns firewall rule group %s: rule %s needs exactly one of managedDomainList or customDomainList", group.Name, rule.Name)
				}
			}
		}
	}

	for _, peering := range cfg.VpcPeerings {
		for _, vpcName := range peering.Vpcs {
			if _, ok := cfg.VpcByName(vpcName); !ok {
				return fmt.Errorf("vpc peering %s: vpc %s is not defined", peering.Name, vpcName)
			}
		}
	}

	accountNames := make(map[string]struct{}, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		accountNames[a.Name] = struct{}{}
	}

	for _, vpc := range cfg.Vpcs {
		if _, ok := accountNames[vpc.Account]; !ok {
			return fmt.Errorf("vpc %s: unknown account %s", vpc.Name, vpc.Account)
		}
		if len(vpc.CidrBlocks) == 0 && len(vpc.IpamAllocations) == 0 {
			return fmt.Errorf("vpc %s: either cidrs or ipamAllocations is required", vpc.Name)
		}
		for _, subnet := range vpc.Subnets {
			if subnet.Ipv4CidrBlock == "" && subnet.IpamAllocation == nil {
				return fmt.Errorf("vpc %s: subnet %s needs ipv4CidrBlock or ipamAllocation", vpc.Name, subnet.Name)
			}
		}
		if vpc.GatewayEndpoints == nil {
			for _, rtb := range vpc.RouteTables {
				for _, entry := range rtb.Routes {
					if entry.Type == RouteTargetGatewayEndpoint {
						return fmt.Errorf("vpc %s: route %s targets a gateway endpoint but the VPC enables none", vpc.Name, entry.Name)
					}
				}
			}
		}
		if vpc.LoadBalancers != nil {
			albNames := make(map[string]struct{}, len(vpc.LoadBalancers.ApplicationLoadBalancers))
			for _, alb := range vpc.LoadBalancers.ApplicationLoadBalancers {
				albNames[alb.Name] = struct{}{}
			}
			for _, tg := range vpc.LoadBalancers.TargetGroups {
				if tg.Type != "alb" {
					continue
				}
				if len(tg.Targets) == 0 {
					return fmt.Errorf("vpc %s: target group %s of type alb needs targets", vpc.Name, tg.Name)
				}
				for _, target := range tg.Targets {
					if _, ok := albNames[target]; !ok {
						return fmt.Errorf("vpc %s: target group %s targets unknown load balancer %s", vpc.Name, tg.Name, target)
					}
				}
			}
		}
	}

	for _, tpl := range cfg.VpcTemplates {
		if len(tpl.DeploymentTargets.Accounts) == 0 && len(tpl.DeploymentTargets.OrganizationalUnits) == 0 {
			return fmt.Errorf("vpc template %s: deploymentTargets selects no accounts", tpl.Name)
		}
		if len(tpl.CidrBlocks) == 0 && len(tpl.IpamAllocations) == 0 {
			return fmt.Errorf("vpc template %s: either cidrs or ipamAllocations is required", tpl.Name)
		}
		for _, subnet := range tpl.Subnets {
			if subnet.Ipv4CidrBlock == "" && subnet.IpamAllocation == nil {
				return fmt.Errorf("vpc template %s: subnet %s needs ipv4CidrBlock or ipamAllocation", tpl.Name, subnet.Name)
			}
		}
		for _, rtb := range tpl.RouteTables {
			for _, entry := range rtb.Routes {
				if entry.Type == RouteTargetGatewayEndpoint {
					return fmt.Errorf("vpc template %s: route %s targets a gateway endpoint, which templated VPCs cannot declare", tpl.Name, entry.Name)
				}
			}
		}
	}

	return nil
}
