package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/config"
	"github.com/accelera/lznet/stacks"
)

func main() {
	app := awscdk.NewApp(nil)

	deployEnv := env()
	stackName := config.NetworkStackName(config.AcceleratorPrefix(app), *deployEnv.Account, *deployEnv.Region)

	stacks.NetworkStack(app, stackName, &stacks.NetworkStackProps{
		StackProps: awscdk.StackProps{
			Env:         deployEnv,
			Description: jsii.String("Network resources for one account/region deployment unit"),
		},
	})

	app.Synth(nil)
}

// env determines the AWS environment (account+region) in which our stack is to
// be deployed. For more information see: https://docs.aws.amazon.com/cdk/latest/guide/environments.html
func env() *awscdk.Environment {
	account := os.Getenv("CDK_DEPLOY_ACCOUNT")
	region := os.Getenv("CDK_DEPLOY_REGION")

	if len(account) == 0 || len(region) == 0 {
		account = os.Getenv("CDK_DEFAULT_ACCOUNT")
		region = os.Getenv("CDK_DEFAULT_REGION")
	}

	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}
