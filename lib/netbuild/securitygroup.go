package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

// portSpec is one expanded (protocol, port range) slot of a rule.
type portSpec struct {
	protocol string
	fromPort *float64
	toPort   *float64
}

// namedTypePorts maps the configuration's named port groups.
var namedTypePorts = map[string]portSpec{
	"SSH":          {protocol: "tcp", fromPort: jsii.Number(22), toPort: jsii.Number(22)},
	"RDP":          {protocol: "tcp", fromPort: jsii.Number(3389), toPort: jsii.Number(3389)},
	"HTTP":         {protocol: "tcp", fromPort: jsii.Number(80), toPort: jsii.Number(80)},
	"HTTPS":        {protocol: "tcp", fromPort: jsii.Number(443), toPort: jsii.Number(443)},
	"MYSQL":        {protocol: "tcp", fromPort: jsii.Number(3306), toPort: jsii.Number(3306)},
	"MYSQL/AURORA": {protocol: "tcp", fromPort: jsii.Number(3306), toPort: jsii.Number(3306)},
	"MSSQL":        {protocol: "tcp", fromPort: jsii.Number(1433), toPort: jsii.Number(1433)},
	"ORACLE-RDS":   {protocol: "tcp", fromPort: jsii.Number(1521), toPort: jsii.Number(1521)},
	"POSTGRESQL":   {protocol: "tcp", fromPort: jsii.Number(5432), toPort: jsii.Number(5432)},
	"REDSHIFT":     {protocol: "tcp", fromPort: jsii.Number(5439), toPort: jsii.Number(5439)},
}

// expandPorts flattens a rule's protocol sets, named port groups and
// explicit TCP/UDP port lists into concrete (protocol, range) slots.
func expandPorts(vpcName string, rule netconfig.SecurityGroupRuleConfig) []portSpec {
	var specs []portSpec

	for _, t := range rule.Types {
		if named, ok := namedTypePorts[t]; ok {
			specs = append(specs, named)
			continue
		}
		switch t {
		case "ALL":
			specs = append(specs, portSpec{protocol: "-1"})
		case "ICMP":
			specs = append(specs, portSpec{protocol: "icmp", fromPort: jsii.Number(-1), toPort: jsii.Number(-1)})
		case "TCP":
			specs = append(specs, portSpec{protocol: "tcp", fromPort: jsii.Number(float64(rule.FromPort)), toPort: jsii.Number(float64(rule.ToPort))})
		case "UDP":
			specs = append(specs, portSpec{protocol: "udp", fromPort: jsii.Number(float64(rule.FromPort)), toPort: jsii.Number(float64(rule.ToPort))})
		default:
			failf("vpc %s: security group rule uses unknown type %q", vpcName, t)
		}
	}

	for _, port := range rule.TcpPorts {
		specs = append(specs, portSpec{protocol: "tcp", fromPort: jsii.Number(float64(port)), toPort: jsii.Number(float64(port))})
	}
	for _, port := range rule.UdpPorts {
		specs = append(specs, portSpec{protocol: "udp", fromPort: jsii.Number(float64(port)), toPort: jsii.Number(float64(port))})
	}

	return specs
}

// BuildSecurityGroups declares all security groups in two strict passes.
// Pass one creates every group and emits the rules whose sources are plain
// (CIDRs, subnets, prefix lists). Pass two emits security-group-sourced
// rules, which may reference sibling groups in any declaration order; only
// after pass one do all referenced groups exist. This split is a
// correctness requirement, not an optimization.
func BuildSecurityGroups(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, sg := range v.Config.SecurityGroupConfigs() {
		description := sg.Description
		if description == "" {
			description = sg.Name
		}
		cfnSg := awsec2.NewCfnSecurityGroup(node, jsii.String("Sg"+sanitizeID(sg.Name)), &awsec2.CfnSecurityGroupProps{
			GroupDescription: jsii.String(description),
			GroupName:        jsii.String(sg.Name),
			VpcId:            res.Vpc.Ref(),
		})
		res.SecurityGroups[sg.Name] = cfnSg

		ref := v.OwnerRef(scope.ResourceTypeSecurityGroup, sg.Name)
		ctx.Register(ref, cfnSg.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnSg.Ref())
	}

	isPlain := func(s netconfig.SecurityGroupSource, _ int) bool {
		return s.Kind() != netconfig.SourceKindSecurityGroup
	}

	for _, sg := range v.Config.SecurityGroupConfigs() {
		emitRules(ctx, node, res, sg, true, isPlain)
	}
	for _, sg := range v.Config.SecurityGroupConfigs() {
		emitRules(ctx, node, res, sg, false, func(s netconfig.SecurityGroupSource, i int) bool {
			return !isPlain(s, i)
		})
	}
}

func emitRules(ctx *Context, node constructs.Construct, res *VpcResources, sg netconfig.SecurityGroupConfig, plainPass bool, keep func(netconfig.SecurityGroupSource, int) bool) {
	group := res.SecurityGroups[sg.Name]
	seq := 0

	emit := func(rules []netconfig.SecurityGroupRuleConfig, egress bool) {
		direction := "In"
		if egress {
			direction = "Out"
		}
		for _, rule := range rules {
			specs := expandPorts(res.InScope.Config.VpcName(), rule)
			sources := lo.Filter(rule.Sources, keep)

			for _, source := range sources {
				for _, peer := range resolveSourcePeers(ctx, res, source) {
					for _, spec := range specs {
						seq++
						id := fmt.Sprintf("Sg%s%sRule%s%d", sanitizeID(sg.Name), direction, passTag(plainPass), seq)
						declareRule(node, id, group, spec, peer, rule.Description, egress)
					}
				}
			}
		}
	}

	emit(sg.InboundRules, false)
	emit(sg.OutboundRules, true)
}

func passTag(plain bool) string {
	if plain {
		return "A"
	}
	return "B"
}

// rulePeer is a resolved rule source: exactly one field is set.
type rulePeer struct {
	cidr         *string
	prefixListID *string
	groupID      *string
}

// resolveSourcePeers expands one configured source into concrete peers.
// Subnet sources resolve to the subnet CIDRs, which for IPAM-allocated
// subnets in other accounts come through the cross-scope lookup.
func resolveSourcePeers(ctx *Context, res *VpcResources, source netconfig.SecurityGroupSource) []rulePeer {
	v := res.InScope

	switch source.Kind() {
	case netconfig.SourceKindCidr:
		return []rulePeer{{cidr: jsii.String(source.Cidr)}}

	case netconfig.SourceKindPrefixList:
		return lo.Map(source.PrefixLists, func(name string, _ int) rulePeer {
			pl := ctx.Resolve(ctx.PrefixListRef(name, v.OwnerAccountID, v.Region))
			return rulePeer{prefixListID: pl.Value}
		})

	case netconfig.SourceKindSubnet:
		return lo.Map(source.Subnets, func(subnetName string, _ int) rulePeer {
			vpcName := source.Vpc
			if vpcName == "" {
				vpcName = v.Config.VpcName()
			}
			if vpcName == v.Config.VpcName() {
				for _, subnet := range v.Config.SubnetConfigs() {
					if subnet.Name == subnetName && subnet.Ipv4CidrBlock != "" {
						return rulePeer{cidr: jsii.String(subnet.Ipv4CidrBlock)}
					}
				}
				if cfnSubnet, ok := res.Subnets[subnetName]; ok {
					return rulePeer{cidr: cfnSubnet.AttrCidrBlock()}
				}
			}
			return rulePeer{cidr: ctx.Resolve(ctx.SubnetCidrRef(vpcName, subnetName)).Value}
		})

	case netconfig.SourceKindSecurityGroup:
		return lo.Map(source.SecurityGroups, func(name string, _ int) rulePeer {
			sibling, ok := res.SecurityGroups[name]
			if !ok {
				failf("vpc %s: security group rule references group %s which is not defined",
					v.Config.VpcName(), name)
			}
			return rulePeer{groupID: sibling.Ref()}
		})

	default:
		failf("vpc %s: security group rule has unknown source variant", v.Config.VpcName())
		return nil
	}
}

func declareRule(node constructs.Construct, id string, group awsec2.CfnSecurityGroup, spec portSpec, peer rulePeer, description string, egress bool) {
	if egress {
		awsec2.NewCfnSecurityGroupEgress(node, jsii.String(id), &awsec2.CfnSecurityGroupEgressProps{
			GroupId:                    group.Ref(),
			IpProtocol:                 jsii.String(spec.protocol),
			FromPort:                   spec.fromPort,
			ToPort:                     spec.toPort,
			CidrIp:                     peer.cidr,
			DestinationPrefixListId:    peer.prefixListID,
			DestinationSecurityGroupId: peer.groupID,
			Description:                jsii.String(description),
		})
		return
	}

	awsec2.NewCfnSecurityGroupIngress(node, jsii.String(id), &awsec2.CfnSecurityGroupIngressProps{
		GroupId:               group.Ref(),
		IpProtocol:            jsii.String(spec.protocol),
		FromPort:              spec.fromPort,
		ToPort:                spec.toPort,
		CidrIp:                peer.cidr,
		SourcePrefixListId:    peer.prefixListID,
		SourceSecurityGroupId: peer.groupID,
		Description:           jsii.String(description),
	})
}
