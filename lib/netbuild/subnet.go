package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

// BuildSubnets declares every configured subnet plus its route table
// association. Both the subnet id and its CIDR are published: the CIDR of an
// IPAM-allocated subnet is unknowable at synthesis time, so downstream units
// (NACL entries, peering routes) must read it back from the store.
func BuildSubnets(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, subnet := range v.Config.SubnetConfigs() {
		props := &awsec2.CfnSubnetProps{
			VpcId: res.Vpc.Ref(),
		}
		if subnet.AvailabilityZone != "" {
			props.AvailabilityZone = jsii.String(v.Region + subnet.AvailabilityZone)
		}
		if subnet.Ipv4CidrBlock != "" {
			props.CidrBlock = jsii.String(subnet.Ipv4CidrBlock)
		} else if subnet.IpamAllocation != nil {
			pool := ctx.Resolve(ctx.IpamPoolRef(subnet.IpamAllocation.IpamPoolName))
			props.Ipv4IpamPoolId = pool.Value
			props.Ipv4NetmaskLength = jsii.Number(float64(subnet.IpamAllocation.NetmaskLength))
		} else {
			failf("vpc %s: subnet %s has neither ipv4CidrBlock nor ipamAllocation", v.Config.VpcName(), subnet.Name)
		}
		if subnet.MapPublicIp {
			props.MapPublicIpOnLaunch = jsii.Bool(true)
		}

		cfnSubnet := awsec2.NewCfnSubnet(node, jsii.String("Subnet"+sanitizeID(subnet.Name)), props)
		res.Subnets[subnet.Name] = cfnSubnet

		if subnet.RouteTable != "" {
			rtb, ok := res.RouteTables[subnet.RouteTable]
			if !ok {
				failf("vpc %s: subnet %s references route table %s which is not defined",
					v.Config.VpcName(), subnet.Name, subnet.RouteTable)
			}
			assoc := awsec2.NewCfnSubnetRouteTableAssociation(node, jsii.String("SubnetRtbAssoc"+sanitizeID(subnet.Name)), &awsec2.CfnSubnetRouteTableAssociationProps{
				SubnetId:     cfnSubnet.Ref(),
				RouteTableId: rtb.Ref(),
			})
			assoc.AddDependency(cfnSubnet)
		}

		ref := v.OwnerRef(scope.ResourceTypeSubnet, subnet.Name)
		ctx.Register(ref, cfnSubnet.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnSubnet.Ref())

		cidrRef := v.OwnerRef(scope.ResourceTypeSubnet, subnet.Name+"/cidr")
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), cidrRef), cfnSubnet.AttrCidrBlock())
	}
}

// BuildRouteTables declares the VPC's route tables. Routes themselves come
// later, after gateways and attachments exist (see BuildRoutes); declaring
// tables first breaks the table -> gateway -> table propagation cycle by
// strict sequencing.
func BuildRouteTables(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, rtb := range v.Config.RouteTableConfigs() {
		cfnRtb := awsec2.NewCfnRouteTable(node, jsii.String("RouteTable"+sanitizeID(rtb.Name)), &awsec2.CfnRouteTableProps{
			VpcId: res.Vpc.Ref(),
		})
		res.RouteTables[rtb.Name] = cfnRtb

		ref := v.OwnerRef(scope.ResourceTypeRouteTable, rtb.Name)
		ctx.Register(ref, cfnRtb.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), cfnRtb.Ref())
	}
}
