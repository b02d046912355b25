// Package lookup declares the custom resources that bridge deployment units:
// same-region resource-share lookups, cross-account/cross-region identifier
// reads, and push propagation of local identifiers into remote units. Every
// construct here is a "declare a pending action" node; the actual API calls
// run at deploy time inside the bundled Lambda handlers under lambdas/.
package lookup

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/aws-cdk-go/awscdklambdagoalpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Cross-account role name conventions. These names are provisioned by a
// separate process and merely assumed here, so they must be predictable
// without communication.

// GetParamRoleName names the role assumed to read another unit's identifier
// store.
func GetParamRoleName(prefix, region string) string {
	return fmt.Sprintf("%s-GetNetworkSsmParamRole-%s", prefix, region)
}

// PutParamRoleName names the role assumed to write into another unit's
// identifier store.
func PutParamRoleName(prefix, region string) string {
	return fmt.Sprintf("%s-PutNetworkSsmParamRole-%s", prefix, region)
}

// DescribeTgwAttachRoleName names the role assumed to describe transit
// gateway attachments in an owning account.
func DescribeTgwAttachRoleName(prefix, region string) string {
	return fmt.Sprintf("%s-DescribeTgwAttachRole-%s", prefix, region)
}

// VpcPeeringRoleName names the role assumed for cross-account peering route
// creation.
func VpcPeeringRoleName(prefix, region string) string {
	return fmt.Sprintf("%s-VpcPeeringRole-%s", prefix, region)
}

// NlbIpLookupRoleName names the role for NLB target IP resolution. The
// upstream contract carries no region suffix for this one.
func NlbIpLookupRoleName(prefix string) string {
	return fmt.Sprintf("%s-GetNLBIPAddressLookup", prefix)
}

// RoleArn renders a deterministic cross-account role ARN.
func RoleArn(partition, accountID, roleName string) string {
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", partition, accountID, roleName)
}

// lambdaEntry resolves a handler directory relative to the repository root,
// so synthesis finds the handler source regardless of the process working
// directory.
func lambdaEntry(handler string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate lambda handler sources")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "lambdas", handler)
}

// ensureProvider returns the stack-singleton custom-resource provider for
// the given handler, creating it on first use. One provider per handler per
// stack keeps the Lambda count bounded regardless of how many lookups a
// unit declares.
func ensureProvider(scope constructs.Construct, id, entry string, statements []awsiam.PolicyStatement) customresources.Provider {
	stack := awscdk.Stack_Of(scope)
	if existing := stack.Node().TryFindChild(jsii.String(id)); existing != nil {
		return existing.(customresources.Provider)
	}

	fn := awscdklambdagoalpha.NewGoFunction(stack, jsii.String(id+"Fn"), &awscdklambdagoalpha.GoFunctionProps{
		Entry:   jsii.String(entry),
		Timeout: awscdk.Duration_Minutes(jsii.Number(5)),
		Bundling: &awscdklambdagoalpha.BundlingOptions{
			GoBuildFlags: &[]*string{
				jsii.String("-ldflags \"-s -w\""),
			},
		},
	})
	for _, st := range statements {
		fn.AddToRolePolicy(st)
	}

	return customresources.NewProvider(stack, jsii.String(id), &customresources.ProviderProps{
		OnEventHandler: fn,
	})
}

func assumeAnyRolePolicy() []awsiam.PolicyStatement {
	return []awsiam.PolicyStatement{
		awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Effect:    awsiam.Effect_ALLOW,
			Actions:   jsii.Strings("sts:AssumeRole"),
			Resources: jsii.Strings("*"),
		}),
	}
}
