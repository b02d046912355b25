package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildLoadBalancers declares ALBs, NLBs, target groups and listeners for
// one VPC. NLB target groups of type "alb" register the named application
// load balancers' addresses as IP targets, resolved at deploy time.
func BuildLoadBalancers(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok || static.LoadBalancers == nil {
		return
	}
	cfg := static.LoadBalancers

	albs := make(map[string]awselasticloadbalancingv2.CfnLoadBalancer)
	for _, albCfg := range cfg.ApplicationLoadBalancers {
		albs[albCfg.Name] = buildAlb(ctx, node, res, albCfg)
	}

	targetGroups := make(map[string]awselasticloadbalancingv2.CfnTargetGroup)
	for _, tgCfg := range cfg.TargetGroups {
		targetGroups[tgCfg.Name] = buildTargetGroup(ctx, node, res, tgCfg, albs)
	}

	for _, albCfg := range cfg.ApplicationLoadBalancers {
		for _, listener := range albCfg.Listeners {
			declareAlbListener(node, albs[albCfg.Name], albCfg, listener, targetGroups)
		}
	}

	for _, nlbCfg := range cfg.NetworkLoadBalancers {
		nlb := buildNlb(ctx, node, res, nlbCfg)
		for _, listener := range nlbCfg.Listeners {
			declareNlbListener(node, nlb, nlbCfg, listener, targetGroups)
		}
	}
}

func buildAlb(ctx *Context, node constructs.Construct, res *VpcResources, cfg netconfig.ApplicationLoadBalancerConfig) awselasticloadbalancingv2.CfnLoadBalancer {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "internal"
	}

	sgIDs := make([]*string, 0, len(cfg.SecurityGroups))
	for _, sgName := range cfg.SecurityGroups {
		sg, ok := res.SecurityGroups[sgName]
		if !ok {
			failf("load balancer %s: security group %s is not defined in vpc %s",
				cfg.Name, sgName, res.InScope.Config.VpcName())
		}
		sgIDs = append(sgIDs, sg.AttrGroupId())
	}

	alb := awselasticloadbalancingv2.NewCfnLoadBalancer(node, jsii.String("Alb"+sanitizeID(cfg.Name)),
		&awselasticloadbalancingv2.CfnLoadBalancerProps{
			Name:           jsii.String(cfg.Name),
			Type:           jsii.String("application"),
			Scheme:         jsii.String(scheme),
			Subnets:        lbSubnetIDs(res, cfg.Name, cfg.Subnets),
			SecurityGroups: &sgIDs,
		})

	publishLoadBalancer(ctx, res, cfg.Name, alb)
	return alb
}

func buildNlb(ctx *Context, node constructs.Construct, res *VpcResources, cfg netconfig.NetworkLoadBalancerConfig) awselasticloadbalancingv2.CfnLoadBalancer {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "internal"
	}

	var attrs []interface{}
	if cfg.CrossZoneBalancing {
		attrs = append(attrs, &awselasticloadbalancingv2.CfnLoadBalancer_LoadBalancerAttributeProperty{
			Key:   jsii.String("load_balancing.cross_zone.enabled"),
			Value: jsii.String("true"),
		})
	}

	props := &awselasticloadbalancingv2.CfnLoadBalancerProps{
		Name:    jsii.String(cfg.Name),
		Type:    jsii.String("network"),
		Scheme:  jsii.String(scheme),
		Subnets: lbSubnetIDs(res, cfg.Name, cfg.Subnets),
	}
	if len(attrs) > 0 {
		props.LoadBalancerAttributes = &attrs
	}

	nlb := awselasticloadbalancingv2.NewCfnLoadBalancer(node, jsii.String("Nlb"+sanitizeID(cfg.Name)), props)
	publishLoadBalancer(ctx, res, cfg.Name, nlb)
	return nlb
}

// buildTargetGroup declares one target group. Type "alb" becomes an IP
// target group whose members are the looked-up addresses of the named ALBs.
func buildTargetGroup(ctx *Context, node constructs.Construct, res *VpcResources, cfg netconfig.TargetGroupItemConfig, albs map[string]awselasticloadbalancingv2.CfnLoadBalancer) awselasticloadbalancingv2.CfnTargetGroup {
	props := &awselasticloadbalancingv2.CfnTargetGroupProps{
		Name:     jsii.String(cfg.Name),
		Protocol: jsii.String(cfg.Protocol),
		Port:     jsii.Number(float64(cfg.Port)),
		VpcId:    res.Vpc.Ref(),
	}

	switch cfg.Type {
	case "alb":
		props.TargetType = jsii.String("ip")
		var targets []interface{}
		for _, albName := range cfg.Targets {
			alb, ok := albs[albName]
			if !ok {
				failf("target group %s: alb target %s is not defined in vpc %s",
					cfg.Name, albName, res.InScope.Config.VpcName())
			}
			ips := lookup.NewNlbIpLookup(node, fmtID("AlbIpLookup", cfg.Name, albName), &lookup.NlbIpLookupProps{
				DnsName: alb.AttrDnsName(),
			})
			// An internal ALB holds one address per subnet; register the
			// first two positions of the resolved list.
			for i := 0; i < 2; i++ {
				targets = append(targets, &awselasticloadbalancingv2.CfnTargetGroup_TargetDescriptionProperty{
					Id:   awscdk.Fn_Select(jsii.Number(float64(i)), ips.IpAddresses()),
					Port: jsii.Number(float64(cfg.Port)),
				})
			}
		}
		props.Targets = &targets
	default:
		props.TargetType = jsii.String(cfg.Type)
	}

	tg := awselasticloadbalancingv2.NewCfnTargetGroup(node, jsii.String("TargetGroup"+sanitizeID(cfg.Name)), props)

	ref := res.InScope.OwnerRef(scope.ResourceTypeTargetGroup, cfg.Name)
	ctx.Register(ref, tg.Ref())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), tg.Ref())
	return tg
}

func declareAlbListener(node constructs.Construct, alb awselasticloadbalancingv2.CfnLoadBalancer, albCfg netconfig.ApplicationLoadBalancerConfig, cfg netconfig.AlbListenerConfig, targetGroups map[string]awselasticloadbalancingv2.CfnTargetGroup) {
	tg, ok := targetGroups[cfg.TargetGroup]
	if !ok {
		failf("load balancer %s: listener %s forwards to target group %s which is not defined",
			albCfg.Name, cfg.Name, cfg.TargetGroup)
	}

	props := &awselasticloadbalancingv2.CfnListenerProps{
		LoadBalancerArn: alb.Ref(),
		Port:            jsii.Number(float64(cfg.Port)),
		Protocol:        jsii.String(cfg.Protocol),
		DefaultActions: &[]interface{}{
			&awselasticloadbalancingv2.CfnListener_ActionProperty{
				Type:           jsii.String("forward"),
				TargetGroupArn: tg.Ref(),
			},
		},
	}
	if cfg.CertificateArn != "" {
		props.Certificates = &[]interface{}{
			&awselasticloadbalancingv2.CfnListener_CertificateProperty{CertificateArn: jsii.String(cfg.CertificateArn)},
		}
		props.SslPolicy = jsii.String(cfg.SslPolicy)
	}

	listener := awselasticloadbalancingv2.NewCfnListener(node,
		jsii.String(fmtID("Listener", albCfg.Name, cfg.Name)), props)
	listener.AddDependency(alb)
	listener.AddDependency(tg)
}

func declareNlbListener(node constructs.Construct, nlb awselasticloadbalancingv2.CfnLoadBalancer, nlbCfg netconfig.NetworkLoadBalancerConfig, cfg netconfig.NlbListenerConfig, targetGroups map[string]awselasticloadbalancingv2.CfnTargetGroup) {
	tg, ok := targetGroups[cfg.TargetGroup]
	if !ok {
		failf("load balancer %s: listener %s forwards to target group %s which is not defined",
			nlbCfg.Name, cfg.Name, cfg.TargetGroup)
	}

	props := &awselasticloadbalancingv2.CfnListenerProps{
		LoadBalancerArn: nlb.Ref(),
		Port:            jsii.Number(float64(cfg.Port)),
		Protocol:        jsii.String(cfg.Protocol),
		DefaultActions: &[]interface{}{
			&awselasticloadbalancingv2.CfnListener_ActionProperty{
				Type:           jsii.String("forward"),
				TargetGroupArn: tg.Ref(),
			},
		},
	}
	if cfg.CertificateArn != "" {
		props.Certificates = &[]interface{}{
			&awselasticloadbalancingv2.CfnListener_CertificateProperty{CertificateArn: jsii.String(cfg.CertificateArn)},
		}
	}
	if cfg.AlpnPolicy != "" {
		props.AlpnPolicy = jsii.Strings(cfg.AlpnPolicy)
	}

	listener := awselasticloadbalancingv2.NewCfnListener(node,
		jsii.String(fmtID("Listener", nlbCfg.Name, cfg.Name)), props)
	listener.AddDependency(nlb)
	listener.AddDependency(tg)
}

func lbSubnetIDs(res *VpcResources, lbName string, names []string) *[]*string {
	ids := lo.Map(names, func(name string, _ int) *string {
		subnet, ok := res.Subnets[name]
		if !ok {
			failf("load balancer %s: subnet %s is not defined in vpc %s",
				lbName, name, res.InScope.Config.VpcName())
		}
		return subnet.Ref()
	})
	return &ids
}

func publishLoadBalancer(ctx *Context, res *VpcResources, name string, lb awselasticloadbalancingv2.CfnLoadBalancer) {
	ref := res.InScope.OwnerRef(scope.ResourceTypeLoadBalancer, name)
	ctx.Register(ref, lb.Ref())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), lb.Ref())
}
