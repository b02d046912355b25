package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/config/netconfig"
)

// BuildVpcEndpoints declares gateway and interface endpoints for one VPC.
//
// Gateway endpoints absorb the route entries of type gatewayEndpoint: the
// route builder skips those, and here every route table carrying one is
// collected into the endpoint's RouteTableIds. A route naming a service the
// VPC does not enable is a configuration error.
func BuildVpcEndpoints(ctx *Context, node constructs.Construct, res *VpcResources) {
	static, ok := res.InScope.Config.(netconfig.VpcConfig)
	if !ok {
		return
	}

	if static.GatewayEndpoints != nil {
		buildGatewayEndpoints(ctx, node, res, static)
	}
	if static.InterfaceEndpoints != nil {
		buildInterfaceEndpoints(ctx, node, res, static)
	}
}

func buildGatewayEndpoints(ctx *Context, node constructs.Construct, res *VpcResources, static netconfig.VpcConfig) {
	enabled := static.GatewayEndpoints.Endpoints

	routeTablesByService := make(map[string][]*string)
	for _, rtb := range static.RouteTables {
		cfnRtb := res.RouteTables[rtb.Name]
		for _, entry := range rtb.Routes {
			if entry.Type != netconfig.RouteTargetGatewayEndpoint {
				continue
			}
			if !lo.Contains(enabled, entry.Target) {
				failf("vpc %s: route %s targets gateway endpoint %s which the VPC does not enable",
					static.Name, entry.Name, entry.Target)
			}
			routeTablesByService[entry.Target] = append(routeTablesByService[entry.Target], cfnRtb.Ref())
		}
	}

	for _, service := range enabled {
		tableIDs := routeTablesByService[service]
		awsec2.NewCfnVPCEndpoint(node, jsii.String("GatewayEndpoint"+sanitizeID(service)), &awsec2.CfnVPCEndpointProps{
			VpcId:           res.Vpc.Ref(),
			ServiceName:     jsii.String(fmt.Sprintf("com.amazonaws.%s.%s", res.InScope.Region, service)),
			VpcEndpointType: jsii.String("Gateway"),
			RouteTableIds:   &tableIDs,
		})
	}
}

// buildInterfaceEndpoints places one interface endpoint per service into the
// configured subnets, guarded by a dedicated security group that admits HTTPS
// from the VPC's primary address space.
func buildInterfaceEndpoints(ctx *Context, node constructs.Construct, res *VpcResources, static netconfig.VpcConfig) {
	cfg := static.InterfaceEndpoints

	subnetIDs := make([]*string, 0, len(cfg.Subnets))
	for _, name := range cfg.Subnets {
		subnet, ok := res.Subnets[name]
		if !ok {
			failf("vpc %s: interface endpoints reference subnet %s which is not defined", static.Name, name)
		}
		subnetIDs = append(subnetIDs, subnet.Ref())
	}

	sg := awsec2.NewCfnSecurityGroup(node, jsii.String("InterfaceEndpointSg"), &awsec2.CfnSecurityGroupProps{
		GroupDescription: jsii.String("interface endpoint access"),
		VpcId:            res.Vpc.Ref(),
	})
	for i, cidr := range endpointAccessCidrs(res) {
		awsec2.NewCfnSecurityGroupIngress(node, jsii.String(fmt.Sprintf("InterfaceEndpointSgIngress%d", i)), &awsec2.CfnSecurityGroupIngressProps{
			GroupId:    sg.AttrGroupId(),
			IpProtocol: jsii.String("tcp"),
			FromPort:   jsii.Number(443),
			ToPort:     jsii.Number(443),
			CidrIp:     cidr,
		})
	}

	for _, service := range cfg.Endpoints {
		awsec2.NewCfnVPCEndpoint(node, jsii.String("InterfaceEndpoint"+sanitizeID(service)), &awsec2.CfnVPCEndpointProps{
			VpcId:             res.Vpc.Ref(),
			ServiceName:       jsii.String(fmt.Sprintf("com.amazonaws.%s.%s", res.InScope.Region, service)),
			VpcEndpointType:   jsii.String("Interface"),
			SubnetIds:         &subnetIDs,
			SecurityGroupIds:  &[]*string{sg.AttrGroupId()},
			PrivateDnsEnabled: jsii.Bool(!cfg.Central),
		})
	}
}

// endpointAccessCidrs returns the VPC's address space as it is known at
// synthesis time: static CIDRs literally, IPAM space via the VPC attribute.
func endpointAccessCidrs(res *VpcResources) []*string {
	cidrs, _ := vpcAddressSpace(res.InScope.Config)
	if len(cidrs) > 0 {
		return lo.Map(cidrs, func(c string, _ int) *string { return jsii.String(c) })
	}
	return []*string{res.Vpc.AttrCidrBlock()}
}
