package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config/netconfig"
)

// BuildNetworkAcls declares network ACLs, their entries and subnet
// associations. Entries whose source or destination names a subnet get that
// subnet's CIDR at synthesis time when it is configured literally, or as a
// deploy-time token when the subnet is IPAM-allocated in another unit.
func BuildNetworkAcls(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok {
		return
	}

	for _, aclCfg := range static.NetworkAcls {
		acl := awsec2.NewCfnNetworkAcl(node, jsii.String("Acl"+sanitizeID(aclCfg.Name)), &awsec2.CfnNetworkAclProps{
			VpcId: res.Vpc.Ref(),
		})

		for _, subnetName := range aclCfg.Subnets {
			subnet, ok := res.Subnets[subnetName]
			if !ok {
				failf("vpc %s: network acl %s associates subnet %s which is not defined",
					static.Name, aclCfg.Name, subnetName)
			}
			assoc := awsec2.NewCfnSubnetNetworkAclAssociation(node,
				jsii.String("AclAssoc"+sanitizeID(aclCfg.Name)+sanitizeID(subnetName)),
				&awsec2.CfnSubnetNetworkAclAssociationProps{
					NetworkAclId: acl.AttrId(),
					SubnetId:     subnet.Ref(),
				})
			assoc.AddDependency(acl)
			assoc.AddDependency(subnet)
		}

		declareAclEntries(ctx, node, res, acl, aclCfg, aclCfg.InboundRules, false)
		declareAclEntries(ctx, node, res, acl, aclCfg, aclCfg.OutboundRules, true)
	}
}

func declareAclEntries(ctx *Context, node constructs.Construct, res *VpcResources, acl awsec2.CfnNetworkAcl, aclCfg netconfig.NetworkAclConfig, entries []netconfig.NetworkAclEntryConfig, egress bool) {
	direction := "In"
	if egress {
		direction = "Out"
	}

	for _, entry := range entries {
		sel := entry.Source
		if egress {
			sel = entry.Destination
		}
		if sel == nil {
			failf("vpc %s: network acl %s rule %d has no source or destination",
				res.InScope.Config.VpcName(), aclCfg.Name, entry.Rule)
		}

		props := &awsec2.CfnNetworkAclEntryProps{
			NetworkAclId: acl.AttrId(),
			RuleNumber:   jsii.Number(float64(entry.Rule)),
			Protocol:     jsii.Number(float64(entry.Protocol)),
			RuleAction:   jsii.String(entry.Action),
			Egress:       jsii.Bool(egress),
			CidrBlock:    aclSelectionCidr(ctx, res, sel),
		}
		if entry.FromPort != 0 || entry.ToPort != 0 {
			props.PortRange = &awsec2.CfnNetworkAclEntry_PortRangeProperty{
				From: jsii.Number(float64(entry.FromPort)),
				To:   jsii.Number(float64(entry.ToPort)),
			}
		}

		awsec2.NewCfnNetworkAclEntry(node,
			jsii.String(fmtID("AclEntry", aclCfg.Name, direction, entry.Rule)), props)
	}
}

// aclSelectionCidr turns a literal CIDR or a subnet selection into the CIDR
// block the entry matches on.
func aclSelectionCidr(ctx *Context, res *VpcResources, sel *netconfig.NetworkAclSourceDest) *string {
	if sel.Cidr != "" {
		return jsii.String(sel.Cidr)
	}

	sub := sel.Subnet
	v := res.InScope

	// Same-VPC selection: prefer the literal block, then the local resource.
	if sub.Vpc == v.Config.VpcName() {
		for _, s := range v.Config.SubnetConfigs() {
			if s.Name == sub.Subnet && s.Ipv4CidrBlock != "" {
				return jsii.String(s.Ipv4CidrBlock)
			}
		}
		if cfnSubnet, ok := res.Subnets[sub.Subnet]; ok {
			return cfnSubnet.AttrCidrBlock()
		}
	}

	ref := ctx.SubnetCidrRef(sub.Vpc, sub.Subnet)
	if sub.Account != "" {
		ref.OwnerAccountID = ctx.MustAccountID(sub.Account)
	}
	if sub.Region != "" {
		ref.OwnerRegion = sub.Region
	}
	return ctx.Resolve(ref).Value
}
