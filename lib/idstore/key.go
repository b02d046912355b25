// Package idstore implements the SSM-backed identifier registry through
// which independently synthesized deployment units find each other's
// resource ids. The key layout is a cross-unit wire contract: two units never
// communicate directly, they only agree on the same deterministic paths.
package idstore

import (
	"strings"

	"github.com/accelera/lznet/lib/scope"
)

// Key is a deterministic identifier-store path. Construction is a pure
// function of its inputs; the same logical resource yields byte-identical
// keys regardless of which deployment unit computes it.
type Key struct {
	prefix     string
	kind       scope.ResourceType
	qualifiers []string
}

// NewKey builds a key under prefix for the given resource kind. Qualifiers
// are ordered [vpcName, resourceName, subResourceName?]; empty qualifiers
// are dropped without shifting the order of the remaining ones.
func NewKey(prefix string, kind scope.ResourceType, qualifiers ...string) Key {
	kept := make([]string, 0, len(qualifiers))
	for _, q := range qualifiers {
		if q != "" {
			kept = append(kept, q)
		}
	}
	return Key{prefix: prefix, kind: kind, qualifiers: kept}
}

// KeyForRef derives the key for a resource reference. Bare-named kinds
// (transit gateways, prefix lists, IPAM pools, resolver rules, DX gateways)
// carry no VPC qualifier.
func KeyForRef(prefix string, ref scope.NetworkResourceRef) Key {
	switch ref.Kind {
	case scope.ResourceTypeTransitGateway,
		scope.ResourceTypePrefixList,
		scope.ResourceTypeIpamPool,
		scope.ResourceTypeResolverRule,
		scope.ResourceTypeQueryLogs,
		scope.ResourceTypeDnsFirewall,
		scope.ResourceTypeDxGateway:
		return NewKey(prefix, ref.Kind, ref.ResourceName)
	case scope.ResourceTypeVpc:
		return NewKey(prefix, ref.Kind, ref.VpcName)
	default:
		return NewKey(prefix, ref.Kind, ref.VpcName, ref.ResourceName)
	}
}

// String renders the parameter path, e.g. "/lznet/subnet/MyVpc/app-a".
func (k Key) String() string {
	parts := append([]string{strings.TrimSuffix(k.prefix, "/"), string(k.kind)}, k.qualifiers...)
	return strings.Join(parts, "/")
}

// ConstructID renders a CDK construct id safe form of the key.
func (k Key) ConstructID() string {
	parts := append([]string{"SsmParam", string(k.kind)}, k.qualifiers...)
	id := strings.Join(parts, "")
	replacer := strings.NewReplacer("/", "", "-", "", "_", "", ".", "")
	return replacer.Replace(id)
}
