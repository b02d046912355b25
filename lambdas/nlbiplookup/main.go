// Handler for Custom::NlbIpAddressLookup: resolves a load balancer DNS name
// to its current IP addresses so an ALB can be registered as IP targets of
// an NLB target group.
package main

import (
	"context"
	"fmt"
	"net"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/accelera/lznet/lambdas/internal/assume"
)

func handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = event.LogicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		return physicalID, nil, nil
	}

	dnsName, err := assume.StringProp(event.ResourceProperties, "DnsName")
	if err != nil {
		return physicalID, nil, err
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", dnsName)
	if err != nil {
		return physicalID, nil, fmt.Errorf("resolve %s: %w", dnsName, err)
	}
	if len(ips) == 0 {
		return physicalID, nil, fmt.Errorf("%s resolved to no IPv4 addresses", dnsName)
	}

	addresses := make([]string, 0, len(ips))
	for _, ip := range ips {
		addresses = append(addresses, ip.String())
	}

	zap.L().Info("resolved load balancer addresses",
		zap.String("dnsName", dnsName),
		zap.Int("count", len(addresses)))

	return physicalID, map[string]interface{}{
		"IpAddresses": addresses,
	}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)

	lambda.Start(cfn.LambdaWrap(handle))
}
