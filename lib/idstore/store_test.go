package idstore_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

func testStack(t *testing.T) awscdk.Stack {
	t.Helper()
	app := awscdk.NewApp(nil)
	return awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("111111111111"),
			Region:  jsii.String("us-east-1"),
		},
	})
}

func TestStorePublishEmitsParameter(t *testing.T) {
	stack := testStack(t)
	store := idstore.NewStore(stack, "/lznet")

	key := idstore.NewKey("/lznet", scope.ResourceTypeVpc, "MyVpc")
	store.Publish(key, jsii.String("vpc-0123456789abcdef0"))

	template := assertions.Template_FromStack(stack, nil)
	template.HasResourceProperties(jsii.String("AWS::SSM::Parameter"), map[string]interface{}{
		"Name":  "/lznet/vpc/MyVpc",
		"Value": "vpc-0123456789abcdef0",
	})
}

func TestStorePublishTwicePanics(t *testing.T) {
	stack := testStack(t)
	store := idstore.NewStore(stack, "/lznet")

	key := idstore.NewKey("/lznet", scope.ResourceTypeVpc, "MyVpc")
	store.Publish(key, jsii.String("vpc-1"))

	require.Panics(t, func() {
		store.Publish(key, jsii.String("vpc-2"))
	})
}

func TestStoreReadPrefersLocalParameter(t *testing.T) {
	stack := testStack(t)
	store := idstore.NewStore(stack, "/lznet")

	key := idstore.NewKey("/lznet", scope.ResourceTypeSubnet, "MyVpc", "app-a")
	param := store.Publish(key, jsii.String("subnet-1"))

	// A locally published key resolves to the parameter's own value, not to
	// an account-level SSM dynamic reference.
	assert.Equal(t, *param.StringValue(), *store.Read(key))
	assert.True(t, store.Published(key))

	// An unpublished key still yields a usable deploy-time reference.
	other := idstore.NewKey("/lznet", scope.ResourceTypeSubnet, "OtherVpc", "app-a")
	assert.False(t, store.Published(other))
	assert.NotNil(t, store.Read(other))
}
