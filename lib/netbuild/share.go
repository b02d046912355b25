package netbuild

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsram"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/samber/lo"

	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// BuildResourceShare declares the RAM share through which same-region
// consumers later locate this resource. The share name follows the
// "{resourceName}_{Label}Share" convention that the lookup side reproduces
// without communication.
func BuildResourceShare(ctx *Context, node constructs.Construct, resourceName string, kind scope.ResourceType, resourceArn *string, accountNames []string) awsram.CfnResourceShare {
	principals := lo.Map(accountNames, func(name string, _ int) *string {
		return jsii.String(ctx.MustAccountID(name))
	})

	shareName := lookup.ShareName(resourceName, kind)

	return awsram.NewCfnResourceShare(node, jsii.String("Share"+sanitizeID(shareName)), &awsram.CfnResourceShareProps{
		Name:                    jsii.String(shareName),
		ResourceArns:            &[]*string{resourceArn},
		Principals:              &principals,
		AllowExternalPrincipals: jsii.Bool(false),
	})
}

func tgwArn(ctx *Context, tgw awsec2.CfnTransitGateway) *string {
	return jsii.String(fmt.Sprintf("arn:%s:ec2:%s:%s:transit-gateway/%s",
		ctx.Partition, ctx.Unit.Region, ctx.Unit.AccountID, *tgw.Ref()))
}

func subnetArn(ctx *Context, subnet awsec2.CfnSubnet) *string {
	return jsii.String(fmt.Sprintf("arn:%s:ec2:%s:%s:subnet/%s",
		ctx.Partition, ctx.Unit.Region, ctx.Unit.AccountID, *subnet.Ref()))
}

func prefixListArn(ctx *Context, pl awsec2.CfnPrefixList) *string {
	return jsii.String(fmt.Sprintf("arn:%s:ec2:%s:%s:prefix-list/%s",
		ctx.Partition, ctx.Unit.Region, ctx.Unit.AccountID, *pl.Ref()))
}

// BuildSubnetShares declares the sharing side for every subnet with share
// targets outside the owning account. Runs only in units reported by
// scope.Filter.SharedVpcs.
func BuildSubnetShares(ctx *Context, node constructs.Construct, res *VpcResources) {
	v := res.InScope

	for _, subnet := range v.Config.SubnetConfigs() {
		targets := lo.Filter(
			netconfigShareAccounts(ctx, subnet.ShareTargets),
			func(name string, _ int) bool { return name != v.OwnerAccountName },
		)
		if len(targets) == 0 {
			continue
		}

		cfnSubnet, ok := res.Subnets[subnet.Name]
		if !ok {
			failf("vpc %s: share targets reference subnet %s which is not defined", v.Config.VpcName(), subnet.Name)
		}
		BuildResourceShare(ctx, node, subnet.Name, scope.ResourceTypeSubnet, subnetArn(ctx, cfnSubnet), targets)
	}
}
