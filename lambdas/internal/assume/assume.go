// Package assume builds AWS SDK configs for the cross-account roles the
// lookup handlers operate through.
package assume

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Config returns an SDK config scoped to region. When roleArn is non-empty
// the config carries credentials assumed from that role; otherwise the
// handler's own execution role is used.
func Config(ctx context.Context, roleArn, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}

	if roleArn == "" {
		return cfg, nil
	}

	stsClient := sts.NewFromConfig(cfg)
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleArn, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = "lznet-network-lookup"
	})
	cfg.Credentials = aws.NewCredentialsCache(provider)

	return cfg, nil
}

// StringProp reads a required string resource property.
func StringProp(props map[string]interface{}, key string) (string, error) {
	v, ok := props[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing resource property %s", key)
	}
	return v, nil
}
