package cdklogger_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/cdklogger"
)

func TestLogMessagesCarryConstructPrefix(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("Test"), nil)

	cdklogger.LogWarning(stack, "Thing", "row %d skipped", 5)
	cdklogger.LogError(stack, "Thing", "bad state")

	annotations := assertions.Annotations_FromStack(stack)
	annotations.HasWarning(jsii.String("*"), jsii.String("[Thing] row 5 skipped"))
	annotations.HasError(jsii.String("*"), jsii.String("[Thing] bad state"))
}

func TestLogMessageSkipsRedundantPrefix(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("Test"), nil)
	child := constructs.NewConstruct(stack, jsii.String("Thing"))

	cdklogger.LogWarning(child, "Thing", "already scoped")

	annotations := assertions.Annotations_FromStack(stack)
	annotations.HasWarning(jsii.String("*"), jsii.String("already scoped"))
}
