package netconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/accelera/lznet/config/netconfig"
)

func TestSecurityGroupSourceUnmarshal(t *testing.T) {
	doc := `
sources:
  - 10.0.0.0/8
  - account: workload-a
    vpc: SpokeA
    subnets:
      - app-a
  - securityGroups:
      - web
  - prefixLists:
      - corporate
`
	var rule netconfig.SecurityGroupRuleConfig
	require.NoError(t, yaml.Unmarshal([]byte(doc), &rule))
	require.Len(t, rule.Sources, 4)

	assert.Equal(t, netconfig.SourceKindCidr, rule.Sources[0].Kind())
	assert.Equal(t, "10.0.0.0/8", rule.Sources[0].Cidr)

	assert.Equal(t, netconfig.SourceKindSubnet, rule.Sources[1].Kind())
	assert.Equal(t, "SpokeA", rule.Sources[1].Vpc)
	assert.Equal(t, "workload-a", rule.Sources[1].Account)

	assert.Equal(t, netconfig.SourceKindSecurityGroup, rule.Sources[2].Kind())
	assert.Equal(t, netconfig.SourceKindPrefixList, rule.Sources[3].Kind())
}

func TestNetworkAclSourceDestUnmarshal(t *testing.T) {
	var literal netconfig.NetworkAclSourceDest
	require.NoError(t, yaml.Unmarshal([]byte(`10.0.0.0/16`), &literal))
	assert.Equal(t, "10.0.0.0/16", literal.Cidr)
	assert.Nil(t, literal.Subnet)

	var selection netconfig.NetworkAclSourceDest
	doc := `
subnet:
  account: workload-a
  region: eu-west-1
  vpc: SpokeA
  subnet: app-a
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &selection))
	require.NotNil(t, selection.Subnet)
	assert.Equal(t, "SpokeA", selection.Subnet.Vpc)
	assert.Equal(t, "eu-west-1", selection.Subnet.Region)
}

func TestVpcLikeSurfaces(t *testing.T) {
	vpc := netconfig.VpcConfig{Name: "Hub"}
	assert.Equal(t, netconfig.VpcKindStatic, vpc.Kind())
	assert.Equal(t, "Hub", vpc.VpcName())

	tpl := netconfig.VpcTemplatesConfig{Name: "Workload"}
	assert.Equal(t, netconfig.VpcKindTemplate, tpl.Kind())
	assert.Equal(t, "Workload", tpl.VpcName())
}

func TestShareTargetsEmpty(t *testing.T) {
	assert.True(t, netconfig.ShareTargets{}.Empty())
	assert.False(t, netconfig.ShareTargets{Accounts: []string{"a"}}.Empty())
	assert.False(t, netconfig.ShareTargets{OrganizationalUnits: []string{"ou"}}.Empty())
}
