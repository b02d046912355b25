package config

import (
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/caarlos0/env/v11"
)

type MainEnvironmentVariables struct {
	// Path to the validated network configuration file consumed by this app.
	NetworkConfigPath string `env:"NETWORK_CONFIG_PATH" envDefault:"network-config.yaml"`
	// Account and region of the deployment unit being synthesized. When empty
	// the CDK default environment is used.
	UnitAccountID string `env:"UNIT_ACCOUNT_ID"`
	UnitRegion    string `env:"UNIT_REGION"`
}

// GetEnvironmentVariables parses T from the process environment. Parsing is
// skipped outside of synthesis so that `cdk ls` style invocations do not
// demand a fully configured environment.
func GetEnvironmentVariables[T any](scope constructs.Construct) T {
	var envObj T

	if !IsStackInSynthesis(scope) {
		return envObj
	}

	err := env.Parse(&envObj)
	if err != nil {
		panic(err)
	}

	return envObj
}
