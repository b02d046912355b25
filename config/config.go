package config

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	// DefaultAcceleratorPrefix is used when no 'acceleratorPrefix' context is set.
	// It participates in SSM parameter paths and cross-account role names, so
	// changing it on an existing installation breaks every published identifier.
	DefaultAcceleratorPrefix = "LZNet"

	// DefaultSsmPrefix is the root namespace for all identifier-store parameters.
	DefaultSsmPrefix = "/lznet"
)

// AcceleratorPrefix returns the installation prefix, overridable via
// 'cdk.json/context/acceleratorPrefix'.
func AcceleratorPrefix(scope constructs.Construct) string {
	prefix := DefaultAcceleratorPrefix

	ctxValue := scope.Node().TryGetContext(jsii.String("acceleratorPrefix"))
	if v, ok := ctxValue.(string); ok && v != "" {
		prefix = v
	}

	return prefix
}

// SsmPrefix returns the identifier-store namespace, overridable via
// 'cdk.json/context/ssmPrefix'.
func SsmPrefix(scope constructs.Construct) string {
	prefix := DefaultSsmPrefix

	ctxValue := scope.Node().TryGetContext(jsii.String("ssmPrefix"))
	if v, ok := ctxValue.(string); ok && v != "" {
		prefix = v
	}

	return prefix
}

// Partition returns the AWS partition, overridable via 'cdk.json/context/partition'.
func Partition(scope constructs.Construct) string {
	partition := "aws"

	ctxValue := scope.Node().TryGetContext(jsii.String("partition"))
	if v, ok := ctxValue.(string); ok && v != "" {
		partition = v
	}

	return partition
}

// NetworkStackName derives the deployment unit's stack name from its
// account and region, e.g. "LZNet-NetworkVpcStack-111111111111-us-east-1".
func NetworkStackName(prefix, accountID, region string) string {
	return fmt.Sprintf("%s-NetworkVpcStack-%s-%s", prefix, accountID, region)
}
