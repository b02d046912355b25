// Handler for Custom::CrossAccountRoute: manages a peering route in a route
// table owned by another account, where CloudFormation's native route
// resource cannot reach.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

type routeSpec struct {
	routeTableID string
	cidr         string
	prefixListID string
	peeringID    string
}

func specFrom(props map[string]interface{}) (routeSpec, error) {
	var spec routeSpec
	var err error

	if spec.routeTableID, err = assume.StringProp(props, "RouteTableId"); err != nil {
		return spec, err
	}
	if spec.peeringID, err = assume.StringProp(props, "VpcPeeringConnectionId"); err != nil {
		return spec, err
	}
	spec.cidr, _ = props["DestinationCidrBlock"].(string)
	spec.prefixListID, _ = props["DestinationPrefixListId"].(string)
	if spec.cidr == "" && spec.prefixListID == "" {
		return spec, fmt.Errorf("route needs DestinationCidrBlock or DestinationPrefixListId")
	}

	return spec, nil
}

func createRoute(ctx context.Context, client *ec2.Client, spec routeSpec) error {
	input := &ec2.CreateRouteInput{
		RouteTableId:           aws.String(spec.routeTableID),
		VpcPeeringConnectionId: aws.String(spec.peeringID),
	}
	if spec.prefixListID != "" {
		input.DestinationPrefixListId = aws.String(spec.prefixListID)
	} else {
		input.DestinationCidrBlock = aws.String(spec.cidr)
	}

	if _, err := client.CreateRoute(ctx, input); err != nil {
		return fmt.Errorf("create route in %s: %w", spec.routeTableID, err)
	}
	return nil
}

func deleteRoute(ctx context.Context, client *ec2.Client, spec routeSpec) error {
	input := &ec2.DeleteRouteInput{
		RouteTableId: aws.String(spec.routeTableID),
	}
	if spec.prefixListID != "" {
		input.DestinationPrefixListId = aws.String(spec.prefixListID)
	} else {
		input.DestinationCidrBlock = aws.String(spec.cidr)
	}

	if _, err := client.DeleteRoute(ctx, input); err != nil {
		return fmt.Errorf("delete route in %s: %w", spec.routeTableID, err)
	}
	return nil
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
	spec, err := specFrom(event.ResourceProperties)
	if err != nil {
		return physicalID, nil, err
	}

	cfg, err := assume.Config(ctx, roleArn, region)
	if err != nil {
		return physicalID, nil, err
	}
	client := ec2.NewFromConfig(cfg)

	switch event.RequestType {
	case cfn.RequestDelete:
		err = deleteRoute(ctx, client, spec)
	case cfn.RequestUpdate:
		// Replace: drop the previously declared route, then create the new one.
		if old, oldErr := specFrom(event.OldResourceProperties); oldErr == nil {
			_ = deleteRoute(ctx, client, old)
		}
		err = createRoute(ctx, client, spec)
	default:
		err = createRoute(ctx, client, spec)
	}
	if err != nil {
		return physicalID, nil, err
	}

	zap.L().Info("cross-account route reconciled",
		zap.String("routeTable", spec.routeTableID),
		zap.String("requestType", string(event.RequestType)))

	return physicalID, nil, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
