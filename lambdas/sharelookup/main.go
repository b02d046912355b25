// Handler for Custom::ResourceShareItemLookup: finds a RAM resource share by
// its conventional name and returns the id and ARN of the shared item of the
// requested type. Runs with the consuming account's native share visibility;
// no role assumption.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ram"
	"github.com/aws/aws-sdk-go-v2/service/ram/types"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func findShareArn(ctx context.Context, client *ram.Client, shareName, ownerAccountID string) (string, error) {
	paginator := ram.NewGetResourceSharesPaginator(client, &ram.GetResourceSharesInput{
		Name:          aws.String(shareName),
		ResourceOwner: types.ResourceOwnerOtherAccounts,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("get resource shares named %s: %w", shareName, err)
		}
		for _, share := range page.ResourceShares {
			if aws.ToString(share.OwningAccountId) == ownerAccountID {
				return aws.ToString(share.ResourceShareArn), nil
			}
		}
	}

	return "", fmt.Errorf("resource share %s owned by %s not visible; was it shared to this account?", shareName, ownerAccountID)
}

func findSharedItem(ctx context.Context, client *ram.Client, shareArn, ramType string) (string, string, error) {
	out, err := client.ListResources(ctx, &ram.ListResourcesInput{
		ResourceOwner:     types.ResourceOwnerOtherAccounts,
		ResourceShareArns: []string{shareArn},
		ResourceType:      aws.String(ramType),
	})
	if err != nil {
		return "", "", fmt.Errorf("list resources of type %s in share: %w", ramType, err)
	}
	if len(out.Resources) == 0 {
		return "", "", fmt.Errorf("share holds no resource of type %s", ramType)
	}

	arn := aws.ToString(out.Resources[0].Arn)
	// The resource id is the final ARN segment, after the last "/" or ":".
	id := arn
	if idx := strings.LastIndexAny(arn, "/:"); idx >= 0 {
		id = arn[idx+1:]
	}
	return id, arn, nil
}

func handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		return physicalID, nil, nil
	}

	shareName, err := assume.StringProp(event.ResourceProperties, "ShareName")
	if err != nil {
		return physicalID, nil, err
	}
	ownerAccountID, err := assume.StringProp(event.ResourceProperties, "OwnerAccountId")
	if err != nil {
		return physicalID, nil, err
	}
	ramType, err := assume.StringProp(event.ResourceProperties, "RamResourceType")
	if err != nil {
		return physicalID, nil, err
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return physicalID, nil, fmt.Errorf("load aws config: %w", err)
	}
	client := ram.NewFromConfig(cfg)

	shareArn, err := findShareArn(ctx, client, shareName, ownerAccountID)
	if err != nil {
		return physicalID, nil, err
	}

	id, arn, err := findSharedItem(ctx, client, shareArn, ramType)
	if err != nil {
		return physicalID, nil, err
	}

	zap.L().Info("resolved shared resource",
		zap.String("share", shareName),
		zap.String("resourceId", id))

	return physicalID, map[string]interface{}{
		"ResourceId":  id,
		"ResourceArn": arn,
	}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
