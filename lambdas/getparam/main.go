// Handler for Custom::GetNetworkSsmParameter: assumes a role in the owning
// account/region and reads one identifier-store parameter there. The value
// returns synchronously into the calling stack's deployment.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		// Nothing owned remotely; the parameter belongs to the other unit.
		return physicalID, nil, nil
	}

	roleArn, err := assume.StringProp(event.ResourceProperties, "AssumeRoleArn")
	if err != nil {
		return physicalID, nil, err
	}
	region, err := assume.StringProp(event.ResourceProperties, "Region")
	if err != nil {
		return physicalID, nil, err
	}
	name, err := assume.StringProp(event.ResourceProperties, "ParameterName")
	if err != nil {
		return physicalID, nil, err
	}

	cfg, err := assume.Config(ctx, roleArn, region)
	if err != nil {
		return physicalID, nil, err
	}

	out, err := ssm.NewFromConfig(cfg).GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		return physicalID, nil, fmt.Errorf("get parameter %s in %s: %w", name, region, err)
	}

	zap.L().Info("resolved remote identifier",
		zap.String("parameter", name),
		zap.String("region", region))

	return physicalID, map[string]interface{}{
		"Value": aws.ToString(out.Parameter.Value),
	}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
