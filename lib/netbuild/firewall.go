package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsnetworkfirewall"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildNetworkFirewallPolicies declares firewall policies in the delegated
// admin's units for every region a policy targets, publishing the policy ARN
// for firewall-owning units to consume.
func BuildNetworkFirewallPolicies(ctx *Context, node constructs.Construct) {
	central := ctx.Cfg.CentralNetworkServices
	if central == nil || central.NetworkFirewall == nil || central.DelegatedAdminAccount == "" {
		return
	}
	if ctx.MustAccountID(central.DelegatedAdminAccount) != ctx.Unit.AccountID {
		return
	}

	for _, policy := range central.NetworkFirewall.Policies {
		if !lo.Contains(policy.Regions, ctx.Unit.Region) {
			continue
		}

		stateless := policy.StatelessDefaultActions
		if len(stateless) == 0 {
			stateless = []string{"aws:forward_to_sfe"}
		}
		fragment := policy.StatelessFragmentDefaultActions
		if len(fragment) == 0 {
			fragment = []string{"aws:forward_to_sfe"}
		}

		cfnPolicy := awsnetworkfirewall.NewCfnFirewallPolicy(node, jsii.String("NfwPolicy"+sanitizeID(policy.Name)),
			&awsnetworkfirewall.CfnFirewallPolicyProps{
				FirewallPolicyName: jsii.String(policy.Name),
				FirewallPolicy: &awsnetworkfirewall.CfnFirewallPolicy_FirewallPolicyProperty{
					StatelessDefaultActions:         jsii.Strings(stateless...),
					StatelessFragmentDefaultActions: jsii.Strings(fragment...),
				},
			})

		ref := scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeNetworkFirewall,
			ResourceName:   policy.Name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(ref, cfnPolicy.AttrFirewallPolicyArn())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnPolicy.AttrFirewallPolicyArn())

		if !policy.ShareTargets.Empty() {
			BuildResourceShare(ctx, node, policy.Name, scope.ResourceTypeNetworkFirewall,
				cfnPolicy.AttrFirewallPolicyArn(), netconfigShareAccounts(ctx, policy.ShareTargets))
		}
	}
}

// BuildNetworkFirewalls declares firewalls in the units owning their VPCs
// and records one endpoint id per availability zone so routes can target
// them. Endpoint attributes arrive as "az:vpce-id" pairs in no guaranteed
// order; a deploy-time lookup matches each zone.
func BuildNetworkFirewalls(ctx *Context, node constructs.Construct, res *VpcResources) {
	central := ctx.Cfg.CentralNetworkServices
	if central == nil || central.NetworkFirewall == nil {
		return
	}

	for _, fw := range central.NetworkFirewall.Firewalls {
		if fw.Vpc != res.InScope.Config.VpcName() {
			continue
		}

		adminID := ctx.MustAccountID(central.DelegatedAdminAccount)
		policyArn := ctx.Resolve(scope.NetworkResourceRef{
			Kind:           scope.ResourceTypeNetworkFirewall,
			ResourceName:   fw.FirewallPolicy,
			OwnerAccountID: adminID,
			OwnerRegion:    res.InScope.Region,
		})

		mappings := make([]interface{}, 0, len(fw.Subnets))
		azs := make([]string, 0, len(fw.Subnets))
		for _, subnetName := range fw.Subnets {
			subnet, ok := res.Subnets[subnetName]
			if !ok {
				failf("network firewall %s: subnet %s is not defined in vpc %s", fw.Name, subnetName, fw.Vpc)
			}
			mappings = append(mappings, &awsnetworkfirewall.CfnFirewall_SubnetMappingProperty{
				SubnetId: subnet.Ref(),
			})
			azs = append(azs, subnetAz(res, subnetName))
		}

		cfnFw := awsnetworkfirewall.NewCfnFirewall(node, jsii.String("Nfw"+sanitizeID(fw.Name)),
			&awsnetworkfirewall.CfnFirewallProps{
				FirewallName:      jsii.String(fw.Name),
				FirewallPolicyArn: policyArn.Value,
				VpcId:             res.Vpc.Ref(),
				SubnetMappings:    &mappings,
				DeleteProtection:  jsii.Bool(fw.DeleteProtection),
			})

		for _, az := range azs {
			endpoint := lookup.NewFirewallEndpointLookup(node, fmtID("NfwEndpoint", fw.Name, az), &lookup.FirewallEndpointLookupProps{
				EndpointIds:      cfnFw.AttrEndpointIds(),
				AvailabilityZone: res.InScope.Region + az,
			})
			res.FirewallEndpoints[az] = endpoint.EndpointID()
		}

		ref := scope.NetworkResourceRef{
			VpcName:        fw.Vpc,
			Kind:           scope.ResourceTypeNetworkFirewall,
			ResourceName:   fw.Name,
			OwnerAccountID: ctx.Unit.AccountID,
			OwnerRegion:    ctx.Unit.Region,
		}
		ctx.Register(ref, cfnFw.AttrFirewallArn())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnFw.AttrFirewallArn())
	}
}

// subnetAz recovers the availability zone a subnet was placed in.
func subnetAz(res *VpcResources, subnetName string) string {
	for _, subnet := range res.InScope.Config.SubnetConfigs() {
		if subnet.Name == subnetName {
			return subnet.AvailabilityZone
		}
	}
	return ""
}
