// Handler for Custom::NetworkFirewallEndpointLookup: picks the firewall
// endpoint serving one availability zone out of the "az:endpoint" pairs the
// firewall resource reports.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func endpointForZone(pairs []interface{}, zone string) (string, error) {
	for _, raw := range pairs {
		pair, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("endpoint entry %v is not a string", raw)
		}
		az, endpoint, found := strings.Cut(pair, ":")
		if !found {
			return "", fmt.Errorf("endpoint entry %q is not an az:endpoint pair", pair)
		}
		if az == zone {
			return endpoint, nil
		}
	}
	return "", fmt.Errorf("no firewall endpoint serves availability zone %s", zone)
}

func handle(_ context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		return physicalID, nil, nil
	}

	zone, err := assume.StringProp(event.ResourceProperties, "AvailabilityZone")
	if err != nil {
		return physicalID, nil, err
	}
	pairs, ok := event.ResourceProperties["EndpointIds"].([]interface{})
	if !ok {
		return physicalID, nil, fmt.Errorf("missing resource property EndpointIds")
	}

	endpoint, err := endpointForZone(pairs, zone)
	if err != nil {
		return physicalID, nil, err
	}

	zap.L().Info("matched firewall endpoint",
		zap.String("availabilityZone", zone),
		zap.String("endpointId", endpoint))

	return physicalID, map[string]interface{}{"EndpointId": endpoint}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
