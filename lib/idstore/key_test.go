package idstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/scope"
)

func TestKeyString(t *testing.T) {
	cases := []struct {
		name string
		key  idstore.Key
		want string
	}{
		{
			name: "vpc scoped resource",
			key:  idstore.NewKey("/lznet", scope.ResourceTypeSubnet, "MyVpc", "app-a"),
			want: "/lznet/subnet/MyVpc/app-a",
		},
		{
			name: "bare named resource",
			key:  idstore.NewKey("/lznet", scope.ResourceTypeTransitGateway, "CoreTgw"),
			want: "/lznet/transitGateways/CoreTgw",
		},
		{
			name: "sub resource",
			key:  idstore.NewKey("/lznet", scope.ResourceTypeTgwRouteTable, "CoreTgw", "shared"),
			want: "/lznet/transitGatewayRouteTables/CoreTgw/shared",
		},
		{
			name: "trailing slash on prefix is normalized",
			key:  idstore.NewKey("/lznet/", scope.ResourceTypeVpc, "MyVpc"),
			want: "/lznet/vpc/MyVpc",
		},
		{
			name: "empty qualifiers are dropped",
			key:  idstore.NewKey("/lznet", scope.ResourceTypePrefixList, "", "corporate"),
			want: "/lznet/prefixList/corporate",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.String())
		})
	}
}

// Two units computing the key for the same logical resource must agree on the
// exact path, otherwise cross-unit resolution silently breaks.
func TestKeyDeterminism(t *testing.T) {
	ref := scope.NetworkResourceRef{
		VpcName:        "Shared",
		Kind:           scope.ResourceTypeRouteTable,
		ResourceName:   "private-a",
		OwnerAccountID: "111111111111",
		OwnerRegion:    "us-east-1",
	}

	producer := idstore.KeyForRef("/lznet", ref)
	consumer := idstore.KeyForRef("/lznet", ref)
	require.Equal(t, producer.String(), consumer.String())

	// Owner fields never participate in the path; they only drive resolution
	// strategy.
	foreign := ref
	foreign.OwnerAccountID = "222222222222"
	foreign.OwnerRegion = "eu-west-1"
	assert.Equal(t, producer.String(), idstore.KeyForRef("/lznet", foreign).String())
}

func TestKeyForRefQualifierShape(t *testing.T) {
	bareKinds := []scope.ResourceType{
		scope.ResourceTypeTransitGateway,
		scope.ResourceTypePrefixList,
		scope.ResourceTypeIpamPool,
		scope.ResourceTypeResolverRule,
		scope.ResourceTypeQueryLogs,
		scope.ResourceTypeDnsFirewall,
		scope.ResourceTypeDxGateway,
	}
	for _, kind := range bareKinds {
		key := idstore.KeyForRef("/lznet", scope.NetworkResourceRef{
			VpcName:      "IgnoredVpc",
			Kind:         kind,
			ResourceName: "thing",
		})
		assert.Equalf(t, "/lznet/"+string(kind)+"/thing", key.String(),
			"kind %s must not carry a vpc qualifier", kind)
	}

	vpcKey := idstore.KeyForRef("/lznet", scope.NetworkResourceRef{
		VpcName: "MyVpc",
		Kind:    scope.ResourceTypeVpc,
	})
	assert.Equal(t, "/lznet/vpc/MyVpc", vpcKey.String())

	subnetKey := idstore.KeyForRef("/lznet", scope.NetworkResourceRef{
		VpcName:      "MyVpc",
		Kind:         scope.ResourceTypeSubnet,
		ResourceName: "app-a",
	})
	assert.Equal(t, "/lznet/subnet/MyVpc/app-a", subnetKey.String())
}

func TestKeyConstructID(t *testing.T) {
	key := idstore.NewKey("/lznet", scope.ResourceTypeSubnet, "My-Vpc", "app_a.1")
	id := key.ConstructID()
	assert.Equal(t, "SsmParamsubnetMyVpcappa1", id)
	assert.NotContains(t, id, "/")
}
