package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

// BuildNatGateways declares NAT gateways into their configured subnets.
// Public gateways allocate an EIP; private ones route through a transit
// gateway or peering instead.
func BuildNatGateways(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, nat := range v.Config.NatGatewayConfigs() {
		subnet, ok := res.Subnets[nat.Subnet]
		if !ok {
			failf("vpc %s: nat gateway %s references subnet %s which is not defined",
				v.Config.VpcName(), nat.Name, nat.Subnet)
		}

		props := &awsec2.CfnNatGatewayProps{
			SubnetId: subnet.Ref(),
		}
		if nat.Private {
			props.ConnectivityType = jsii.String("private")
		} else {
			eip := awsec2.NewCfnEIP(node, jsii.String("NatEip"+sanitizeID(nat.Name)), &awsec2.CfnEIPProps{
				Domain: jsii.String("vpc"),
			})
			props.AllocationId = eip.AttrAllocationId()
		}

		gw := awsec2.NewCfnNatGateway(node, jsii.String("NatGateway"+sanitizeID(nat.Name)), props)
		gw.AddDependency(subnet)
		res.NatGateways[nat.Name] = gw

		ref := v.OwnerRef(scope.ResourceTypeNatGateway, nat.Name)
		ctx.Register(ref, gw.Ref())
		ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ref), gw.Ref())
	}
}
