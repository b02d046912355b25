// Handler for Custom::DescribeTgwAttachment: finds the transit gateway
// attachment created implicitly for a VPN connection, VPC or peering, by
// filtering on the attached resource's id.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func findAttachment(ctx context.Context, client *ec2.Client, tgwID, resourceID, resourceType string) (string, error) {
	out, err := client.DescribeTransitGatewayAttachments(ctx, &ec2.DescribeTransitGatewayAttachmentsInput{
		Filters: []types.Filter{
			{Name: aws.String("transit-gateway-id"), Values: []string{tgwID}},
			{Name: aws.String("resource-id"), Values: []string{resourceID}},
			{Name: aws.String("resource-type"), Values: []string{resourceType}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe attachments of %s: %w", resourceID, err)
	}
	if len(out.TransitGatewayAttachments) == 0 {
		return "", fmt.Errorf("no %s attachment of %s on %s; has the connection deployed?", resourceType, resourceID, tgwID)
	}

	return aws.ToString(out.TransitGatewayAttachments[0].TransitGatewayAttachmentId), nil
}

func handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		return physicalID, nil, nil
	}

	region, err := assume.StringProp(event.ResourceProperties, "Region")
	if err != nil {
		return physicalID, nil, err
	}
	tgwID, err := assume.StringProp(event.ResourceProperties, "TransitGatewayId")
	if err != nil {
		return physicalID, nil, err
	}
	resourceID, err := assume.StringProp(event.ResourceProperties, "ResourceId")
	if err != nil {
		return physicalID, nil, err
	}
	resourceType, err := assume.StringProp(event.ResourceProperties, "ResourceType")
	if err != nil {
		return physicalID, nil, err
	}
	roleArn, _ := event.ResourceProperties["AssumeRoleArn"].(string)

	cfg, err := assume.Config(ctx, roleArn, region)
	if err != nil {
		return physicalID, nil, err
	}

	attachmentID, err := findAttachment(ctx, ec2.NewFromConfig(cfg), tgwID, resourceID, resourceType)
	if err != nil {
		return physicalID, nil, err
	}

	zap.L().Info("resolved transit gateway attachment",
		zap.String("resourceId", resourceID),
		zap.String("attachmentId", attachmentID))

	return physicalID, map[string]interface{}{"AttachmentId": attachmentID}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
