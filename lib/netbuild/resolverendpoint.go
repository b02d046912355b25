package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53resolver"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildResolverEndpoints declares Route 53 Resolver endpoints and the rules
// of outbound endpoints. Runs only where the delegated admin owns the
// endpoint's VPC; inbound endpoints never carry rules, which structural
// validation enforces before any builder runs.
func BuildResolverEndpoints(ctx *Context, node constructs.Construct, built map[string]*VpcResources) {
	resolver := centralResolver(ctx)
	if resolver == nil {
		return
	}

	for _, ep := range resolver.Endpoints {
		res, ok := built[ep.Vpc]
		if !ok {
			continue
		}

		sg := resolverEndpointSg(ctx, node, res, ep)

		ips := make([]interface{}, 0, len(ep.Subnets))
		for _, subnetName := range ep.Subnets {
			subnet, ok := res.Subnets[subnetName]
			if !ok {
				failf("resolver endpoint %s: subnet %s is not defined in vpc %s", ep.Name, subnetName, ep.Vpc)
			}
			ips = append(ips, &awsroute53resolver.CfnResolverEndpoint_IpAddressRequestProperty{
				SubnetId: subnet.Ref(),
			})
		}

		endpoint := awsroute53resolver.NewCfnResolverEndpoint(node, jsii.String("ResolverEndpoint"+sanitizeID(ep.Name)),
			&awsroute53resolver.CfnResolverEndpointProps{
				Direction:        jsii.String(ep.Type),
				IpAddresses:      &ips,
				SecurityGroupIds: &[]*string{sg.AttrGroupId()},
				Name:             jsii.String(ep.Name),
			})

		epRef := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeResolverEndpoint,
			ResourceName:   ep.Name,
			VpcName:        ep.Vpc,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(epRef, endpoint.AttrResolverEndpointId())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), epRef), endpoint.AttrResolverEndpointId())

		for _, rule := range ep.Rules {
			buildResolverRule(ctx, node, endpoint, rule)
		}
	}
}

func buildResolverRule(ctx *Context, node constructs.Construct, endpoint awsroute53resolver.CfnResolverEndpoint, rule netconfig.ResolverRuleConfig) {
	ruleType := rule.RuleType
	if ruleType == "" {
		ruleType = "FORWARD"
	}

	targets := lo.Map(rule.TargetIps, func(ip string, _ int) interface{} {
		return &awsroute53resolver.CfnResolverRule_TargetAddressProperty{Ip: jsii.String(ip)}
	})

	cfnRule := awsroute53resolver.NewCfnResolverRule(node, jsii.String("ResolverRule"+sanitizeID(rule.Name)),
		&awsroute53resolver.CfnResolverRuleProps{
			DomainName:         jsii.String(rule.DomainName),
			RuleType:           jsii.String(ruleType),
			ResolverEndpointId: endpoint.AttrResolverEndpointId(),
			TargetIps:          &targets,
			Name:               jsii.String(rule.Name),
		})

	ref := scope.NetworkResourceRef{
		Kind:           scope.ResourceTypeResolverRule,
		ResourceName:   rule.Name,
		OwnerAccountID: ctx.Unit.AccountID,
		OwnerRegion:    ctx.Unit.Region,
	}
	ctx.Register(ref, cfnRule.AttrResolverRuleId())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnRule.AttrResolverRuleId())

	if !rule.ShareTargets.Empty() {
		BuildResourceShare(ctx, node, rule.Name, scope.ResourceTypeResolverRule,
			cfnRule.AttrArn(), netconfigShareAccounts(ctx, rule.ShareTargets))
	}
}

// resolverEndpointSg admits DNS over TCP and UDP from the allowed CIDRs, or
// the endpoint VPC's own address space when none are configured.
func resolverEndpointSg(ctx *Context, node constructs.Construct, res *VpcResources, ep netconfig.ResolverEndpointConfig) awsec2.CfnSecurityGroup {
	sg := awsec2.NewCfnSecurityGroup(node, jsii.String("ResolverEndpointSg"+sanitizeID(ep.Name)), &awsec2.CfnSecurityGroupProps{
		GroupDescription: jsii.String(fmt.Sprintf("resolver endpoint %s", ep.Name)),
		VpcId:            res.Vpc.Ref(),
	})

	cidrs := lo.Map(ep.AllowedCidrs, func(c string, _ int) *string { return jsii.String(c) })
	if len(cidrs) == 0 {
		cidrs = endpointAccessCidrs(res)
	}
	for i, cidr := range cidrs {
		for _, proto := range []string{"tcp", "udp"} {
			awsec2.NewCfnSecurityGroupIngress(node,
				jsii.String(fmtID("ResolverEndpointSgIngress", ep.Name, proto, i)),
				&awsec2.CfnSecurityGroupIngressProps{
					GroupId:    sg.AttrGroupId(),
					IpProtocol: jsii.String(proto),
					FromPort:   jsii.Number(53),
					ToPort:     jsii.Number(53),
					CidrIp:     cidr,
				})
		}
	}

	return sg
}

// BuildResolverRuleAssociations attaches configured resolver rules to a VPC.
// Runs in the VPC's own unit; rules owned elsewhere resolve through the
// share or lookup path first.
func BuildResolverRuleAssociations(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok {
		return
	}

	for _, ruleName := range static.ResolverRules {
		ruleID := ctx.Resolve(ctx.ResolverRuleRef(ruleName))
		awsroute53resolver.NewCfnResolverRuleAssociation(node,
			jsii.String("ResolverRuleAssoc"+sanitizeID(ruleName)),
			&awsroute53resolver.CfnResolverRuleAssociationProps{
				ResolverRuleId: ruleID.Value,
				VpcId:          res.Vpc.Ref(),
			})
	}
}

// BuildQueryLogging declares DNS query logging configurations with their
// destinations. One configuration per destination kind; each publishes under
// "{name}-{dest}" so associating units can address either.
func BuildQueryLogging(ctx *Context, node constructs.Construct) {
	resolver := centralResolver(ctx)
	if resolver == nil || resolver.QueryLogs == nil {
		return
	}
	if ctx.MustAccountID(ctx.Cfg.CentralNetworkServices.DelegatedAdminAccount) != ctx.Unit.AccountID {
		return
	}

	cfg := resolver.QueryLogs
	for _, dest := range cfg.Destinations {
		var arn *string
		var suffix string

		switch dest {
		case "s3":
			suffix = "s3"
			bucket := awss3.NewBucket(node, jsii.String("QueryLogsBucket"), &awss3.BucketProps{
				BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
				Encryption:        awss3.BucketEncryption_S3_MANAGED,
			})
			arn = bucket.BucketArn()
		case "cloud-watch-logs":
			suffix = "cwl"
			group := awslogs.NewLogGroup(node, jsii.String("QueryLogsGroup"), &awslogs.LogGroupProps{
				Retention: awslogs.RetentionDays_ONE_YEAR,
			})
			arn = group.LogGroupArn()
		default:
			failf("query logs %s: unsupported destination %q", cfg.Name, dest)
		}

		logging := awsroute53resolver.NewCfnResolverQueryLoggingConfig(node,
			jsii.String("QueryLogsConfig"+sanitizeID(suffix)),
			&awsroute53resolver.CfnResolverQueryLoggingConfigProps{
				Name:           jsii.String(fmt.Sprintf("%s-%s", cfg.Name, suffix)),
				DestinationArn: arn,
			})

		ref := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeQueryLogs,
			ResourceName:   fmt.Sprintf("%s-%s", cfg.Name, suffix),
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(ref, logging.AttrId())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), logging.AttrId())
	}
}

// BuildQueryLogAssociations attaches a VPC to every destination of each
// query logging configuration it names.
func BuildQueryLogAssociations(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok || len(static.QueryLogs) == 0 {
		return
	}
	central := ctx.Cfg.CentralNetworkServices
	if central == nil || central.Route53Resolver == nil || central.Route53Resolver.QueryLogs == nil {
		failf("vpc %s: queryLogs configured but no central query logging exists", static.Name)
	}

	adminID := ctx.MustAccountID(central.DelegatedAdminAccount)
	for _, name := range static.QueryLogs {
		if name != central.Route53Resolver.QueryLogs.Name {
			failf("vpc %s: query logs configuration %s is not defined", static.Name, name)
		}
		for _, dest := range central.Route53Resolver.QueryLogs.Destinations {
			suffix := "s3"
			if dest == "cloud-watch-logs" {
				suffix = "cwl"
			}
			configID := ctx.Resolve(scope.NetworkResourceRef{
				Kind:           scope.ResourceTypeQueryLogs,
				ResourceName:   fmt.Sprintf("%s-%s", name, suffix),
				OwnerAccountID: adminID,
				OwnerRegion:    res.InScope.Region,
			})
			awsroute53resolver.NewCfnResolverQueryLoggingConfigAssociation(node,
				jsii.String(fmtID("QueryLogsAssoc", name, suffix)),
				&awsroute53resolver.CfnResolverQueryLoggingConfigAssociationProps{
					ResolverQueryLogConfigId: configID.Value,
					ResourceId:               res.Vpc.Ref(),
				})
		}
	}
}

// BuildDnsFirewallRuleGroups declares DNS firewall rule groups in the
// delegated admin's units for every region the group targets. Managed domain
// lists resolve by name at deploy time; custom lists materialize inline.
func BuildDnsFirewallRuleGroups(ctx *Context, node constructs.Construct) {
	resolver := centralResolver(ctx)
	if resolver == nil {
		return
	}
	if ctx.MustAccountID(ctx.Cfg.CentralNetworkServices.DelegatedAdminAccount) != ctx.Unit.AccountID {
		return
	}

	for _, group := range resolver.FirewallRuleGroups {
		if !lo.Contains(group.Regions, ctx.Unit.Region) {
			continue
		}

		rules := make([]interface{}, 0, len(group.Rules))
		for _, rule := range group.Rules {
			var domainListID *string
			switch {
			case rule.ManagedDomainList != "":
				lookupCr := lookup.NewDomainListLookup(node, "DomainList"+sanitizeID(rule.Name), &lookup.DomainListLookupProps{
					Region: ctx.Unit.Region,
					Name:   rule.ManagedDomainList,
				})
				domainListID = lookupCr.ID()
			case len(rule.CustomDomains) > 0:
				domains := lo.Map(rule.CustomDomains, func(d string, _ int) *string { return jsii.String(d) })
				list := awsroute53resolver.NewCfnFirewallDomainList(node, jsii.String("DomainList"+sanitizeID(rule.Name)),
					&awsroute53resolver.CfnFirewallDomainListProps{
						Name:    jsii.String(rule.Name),
						Domains: &domains,
					})
				domainListID = list.AttrId()
			default:
				failf("dns firewall group %s: rule %s names neither a managed nor a custom domain list",
					group.Name, rule.Name)
			}

			ruleProps := &awsroute53resolver.CfnFirewallRuleGroup_FirewallRuleProperty{
				Action:               jsii.String(rule.Action),
				FirewallDomainListId: domainListID,
				Priority:             jsii.Number(float64(rule.Priority)),
			}
			if rule.BlockResponse != "" {
				ruleProps.BlockResponse = jsii.String(rule.BlockResponse)
			}
			rules = append(rules, ruleProps)
		}

		cfnGroup := awsroute53resolver.NewCfnFirewallRuleGroup(node, jsii.String("DnsFirewallGroup"+sanitizeID(group.Name)),
			&awsroute53resolver.CfnFirewallRuleGroupProps{
				Name:          jsii.String(group.Name),
				FirewallRules: &rules,
			})

		ref := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeDnsFirewall,
			ResourceName:   group.Name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(ref, cfnGroup.AttrId())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnGroup.AttrId())

		if !group.ShareTargets.Empty() {
			BuildResourceShare(ctx, node, group.Name, scope.ResourceTypeDnsFirewall,
				cfnGroup.AttrArn(), netconfigShareAccounts(ctx, group.ShareTargets))
		}
	}
}

// BuildDnsFirewallAssociations attaches rule groups to a VPC in the VPC's
// own unit.
func BuildDnsFirewallAssociations(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok {
		return
	}
	if len(static.DnsFirewallRuleGroups) == 0 {
		return
	}
	central := ctx.Cfg.CentralNetworkServices
	if central == nil {
		failf("vpc %s: dnsFirewallRuleGroups configured but no central network services exist", static.Name)
	}
	adminID := ctx.MustAccountID(central.DelegatedAdminAccount)

	for _, assoc := range static.DnsFirewallRuleGroups {
		groupID := ctx.Resolve(scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeDnsFirewall,
			ResourceName:   assoc.Name,
			OwnerAccountID: adminID,
			OwnerRegion:    res.InScope.Region,
		})
		awsroute53resolver.NewCfnFirewallRuleGroupAssociation(node,
			jsii.String("DnsFirewallAssoc"+sanitizeID(assoc.Name)),
			&awsroute53resolver.CfnFirewallRuleGroupAssociationProps{
				FirewallRuleGroupId: groupID.Value,
				Priority:            jsii.Number(float64(assoc.Priority)),
				VpcId:               res.Vpc.Ref(),
			})
	}
}

func centralResolver(ctx *Context) *netconfig.ResolverConfig {
	central := ctx.Cfg.CentralNetworkServices
	if central == nil || central.Route53Resolver == nil || central.DelegatedAdminAccount == "" {
		return nil
	}
	return central.Route53Resolver
}
