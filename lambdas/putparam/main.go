// Handler for Custom::PutNetworkSsmParameters: assumes a role in the target
// account/region and writes identifier-store parameters there. This is the
// push half of cross-unit propagation; delete events clean the pushed keys up.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

type paramEntry struct {
	Name  string
	Value string
}

func entries(props map[string]interface{}) ([]paramEntry, error) {
	raw, ok := props["Parameters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("missing resource property Parameters")
	}

	out := make([]paramEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("malformed Parameters entry %v", item)
		}
		name, _ := m["Name"].(string)
		value, _ := m["Value"].(string)
		if name == "" {
			return nil, fmt.Errorf("Parameters entry without Name")
		}
		out = append(out, paramEntry{Name: name, Value: value})
	}
	return out, nil
}

func handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	roleArn, err := assume.StringProp(event.ResourceProperties, "AssumeRoleArn")
	if err != nil {
		return physicalID, nil, err
	}
	region, err := assume.StringProp(event.ResourceProperties, "Region")
	if err != nil {
		return physicalID, nil, err
	}
	params, err := entries(event.ResourceProperties)
	if err != nil {
		return physicalID, nil, err
	}

	cfg, err := assume.Config(ctx, roleArn, region)
	if err != nil {
		return physicalID, nil, err
	}
	client := ssm.NewFromConfig(cfg)

	if event.RequestType == cfn.RequestDelete {
		for _, p := range params {
			_, err := client.DeleteParameter(ctx, &ssm.DeleteParameterInput{Name: aws.String(p.Name)})
			if err != nil {
				// A missing parameter on delete is fine; anything else fails
				// the rollback path loudly.
				var notFound *types.ParameterNotFound
				if !errors.As(err, &notFound) {
					return physicalID, nil, fmt.Errorf("delete pushed parameter %s: %w", p.Name, err)
				}
			}
		}
		return physicalID, nil, nil
	}

	for _, p := range params {
		_, err := client.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      aws.String(p.Name),
			Value:     aws.String(p.Value),
			Type:      types.ParameterTypeString,
			Overwrite: aws.Bool(true),
		})
		if err != nil {
			return physicalID, nil, fmt.Errorf("push parameter %s to %s: %w", p.Name, region, err)
		}
		zap.L().Info("pushed identifier to remote unit",
			zap.String("parameter", p.Name),
			zap.String("region", region))
	}

	return physicalID, nil, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
