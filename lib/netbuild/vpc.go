package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/cdklogger"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

// VpcResources collects everything created for one in-scope VPC, so later
// builders can reference constructs directly and wire dependency edges.
type VpcResources struct {
	InScope scope.VpcInScope

	Vpc                   awsec2.CfnVPC
	InternetGateway       awsec2.CfnInternetGateway
	VirtualPrivateGateway awsec2.CfnVPNGateway
	Subnets               map[string]awsec2.CfnSubnet
	RouteTables           map[string]awsec2.CfnRouteTable
	SecurityGroups        map[string]awsec2.CfnSecurityGroup
	NatGateways           map[string]awsec2.CfnNatGateway
	TgwAttachments        map[string]awsec2.CfnTransitGatewayAttachment
	FirewallEndpoints     map[string]*string // availability zone -> endpoint id
}

// BuildVpc materializes the VPC itself: address space (static CIDRs or IPAM
// allocations), DNS attributes, internet and virtual private gateways. The
// VPC id is registered locally and published for downstream units.
func BuildVpc(ctx *Context, node constructs.Construct, v scope.VpcInScope) *VpcResources {
	res := &VpcResources{
		InScope:           v,
		Subnets:           make(map[string]awsec2.CfnSubnet),
		RouteTables:       make(map[string]awsec2.CfnRouteTable),
		SecurityGroups:    make(map[string]awsec2.CfnSecurityGroup),
		NatGateways:       make(map[string]awsec2.CfnNatGateway),
		TgwAttachments:    make(map[string]awsec2.CfnTransitGatewayAttachment),
		FirewallEndpoints: make(map[string]*string),
	}

	props := &awsec2.CfnVPCProps{
		InstanceTenancy: jsii.String("default"),
	}

	cidrs, ipamAllocations := vpcAddressSpace(v.Config)
	if len(cidrs) > 0 {
		props.CidrBlock = jsii.String(cidrs[0])
	} else {
		pool := ctx.Resolve(ctx.IpamPoolRef(ipamAllocations[0].IpamPoolName))
		props.Ipv4IpamPoolId = pool.Value
		props.Ipv4NetmaskLength = jsii.Number(float64(ipamAllocations[0].NetmaskLength))
	}

	if static, ok := v.Config.(netconfig.VpcConfig); ok {
		props.EnableDnsHostnames = jsii.Bool(static.EnableDnsHostnames)
		props.EnableDnsSupport = jsii.Bool(static.EnableDnsSupport)
		if static.InstanceTenancy != "" {
			props.InstanceTenancy = jsii.String(static.InstanceTenancy)
		}
	}

	vpc := awsec2.NewCfnVPC(node, jsii.String("Vpc"), props)
	res.Vpc = vpc

	// Every block beyond the primary attaches as a separate association.
	// Only the list that supplied the primary skips its first entry.
	secondaryCidrs := cidrs
	secondaryAllocations := ipamAllocations
	if len(cidrs) > 0 {
		secondaryCidrs = cidrs[1:]
	} else {
		secondaryAllocations = ipamAllocations[1:]
	}

	for i, cidr := range secondaryCidrs {
		awsec2.NewCfnVPCCidrBlock(node, jsii.String(fmt.Sprintf("VpcCidrBlock%d", i)), &awsec2.CfnVPCCidrBlockProps{
			VpcId:     vpc.Ref(),
			CidrBlock: jsii.String(cidr),
		})
	}
	for i, alloc := range secondaryAllocations {
		pool := ctx.Resolve(ctx.IpamPoolRef(alloc.IpamPoolName))
		awsec2.NewCfnVPCCidrBlock(node, jsii.String(fmt.Sprintf("VpcIpamCidrBlock%d", i)), &awsec2.CfnVPCCidrBlockProps{
			VpcId:             vpc.Ref(),
			Ipv4IpamPoolId:    pool.Value,
			Ipv4NetmaskLength: jsii.Number(float64(alloc.NetmaskLength)),
		})
	}

	if vpcHasInternetGateway(v.Config) {
		igw := awsec2.NewCfnInternetGateway(node, jsii.String("InternetGateway"), &awsec2.CfnInternetGatewayProps{})
		awsec2.NewCfnVPCGatewayAttachment(node, jsii.String("InternetGatewayAttachment"), &awsec2.CfnVPCGatewayAttachmentProps{
			VpcId:             vpc.Ref(),
			InternetGatewayId: igw.Ref(),
		})
		res.InternetGateway = igw
	}

	if static, ok := v.Config.(netconfig.VpcConfig); ok && static.VirtualPrivateGateway != nil {
		vgwProps := &awsec2.CfnVPNGatewayProps{Type: jsii.String("ipsec.1")}
		if static.VirtualPrivateGateway.Asn != 0 {
			vgwProps.AmazonSideAsn = jsii.Number(float64(static.VirtualPrivateGateway.Asn))
		}
		vgw := awsec2.NewCfnVPNGateway(node, jsii.String("VirtualPrivateGateway"), vgwProps)
		awsec2.NewCfnVPCGatewayAttachment(node, jsii.String("VpnGatewayAttachment"), &awsec2.CfnVPCGatewayAttachmentProps{
			VpcId:        vpc.Ref(),
			VpnGatewayId: vgw.Ref(),
		})
		res.VirtualPrivateGateway = vgw
	}

	ref := v.OwnerRef(scope.ResourceTypeVpc, "")
	ctx.Register(ref, vpc.Ref())
	ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), vpc.Ref())

	cdklogger.LogInfo(node, "", "VPC %s: declared with %d static CIDR(s) and %d IPAM allocation(s)",
		v.Config.VpcName(), len(cidrs), len(ipamAllocations))

	return res
}

func vpcAddressSpace(cfg netconfig.VpcLike) ([]string, []netconfig.IpamAllocationConfig) {
	switch c := cfg.(type) {
	case netconfig.VpcConfig:
		return c.CidrBlocks, c.IpamAllocations
	case netconfig.VpcTemplatesConfig:
		return c.CidrBlocks, c.IpamAllocations
	default:
		failf("vpc %s: unknown config variant", cfg.VpcName())
		return nil, nil
	}
}

func vpcHasInternetGateway(cfg netconfig.VpcLike) bool {
	switch c := cfg.(type) {
	case netconfig.VpcConfig:
		return c.InternetGateway
	case netconfig.VpcTemplatesConfig:
		return c.InternetGateway
	default:
		return false
	}
}
