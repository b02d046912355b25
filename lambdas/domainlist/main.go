// Handler for Custom::DnsFirewallManagedDomainList: resolves an AWS-managed
// DNS firewall domain list to its per-account id by display name.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func findDomainList(ctx context.Context, client *route53resolver.Client, name string) (string, error) {
	paginator := route53resolver.NewListFirewallDomainListsPaginator(client, &route53resolver.ListFirewallDomainListsInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("list firewall domain lists: %w", err)
		}
		for _, list := range page.FirewallDomainLists {
			if aws.ToString(list.Name) == name {
				return aws.ToString(list.Id), nil
			}
		}
	}

	return "", fmt.Errorf("managed domain list %s not found in this region", name)
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
	name, err := assume.StringProp(event.ResourceProperties, "DomainListName")
	if err != nil {
		return physicalID, nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return physicalID, nil, fmt.Errorf("load aws config: %w", err)
	}

	id, err := findDomainList(ctx, route53resolver.NewFromConfig(cfg), name)
	if err != nil {
		return physicalID, nil, err
	}

	zap.L().Info("resolved managed domain list",
		zap.String("name", name),
		zap.String("domainListId", id))

	return physicalID, map[string]interface{}{"DomainListId": id}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
