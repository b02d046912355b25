// Package netbuild turns the in-scope network configuration into CDK
// resource declarations. A Context carries one deployment unit's resolution
// state; nothing in this package is module-level, so several units can be
// synthesized in the same process without cross-contamination.
package netbuild

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"

	"github.com/accelera/lznet/config/netconfig"
	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// ResolutionMethod records how an identifier was obtained.
type ResolutionMethod string

const (
	MethodLocal             ResolutionMethod = "local"
	MethodResourceShare     ResolutionMethod = "resourceShare"
	MethodCrossRegionLookup ResolutionMethod = "crossRegionLookup"
	MethodCrossAccountPush  ResolutionMethod = "crossAccountPush"
)

// ResolvedIdentifier is an identifier value (possibly a deploy-time token)
// plus the method that produced it. Computed once per synthesis pass per
// logical resource; never cached across units.
type ResolvedIdentifier struct {
	Value  *string
	Method ResolutionMethod
}

// Context is the per-deployment-unit resolution state shared by all
// builders. Maps memoize resolutions so no key resolves twice in one pass.
type Context struct {
	Scope      constructs.Construct
	Unit       scope.DeploymentUnit
	Cfg        *netconfig.NetworkConfig
	Store      *idstore.Store
	Prefix     string
	Partition  string
	OuAccounts map[string][]string
	Ledger     *scope.GenerationLedger

	resolved map[string]ResolvedIdentifier
	lookups  int
}

// NewContext creates resolution state for one unit's synthesis.
func NewContext(scope_ constructs.Construct, unit scope.DeploymentUnit, cfg *netconfig.NetworkConfig, store *idstore.Store, prefix, partition string, ouAccounts map[string][]string) *Context {
	return &Context{
		Scope:      scope_,
		Unit:       unit,
		Cfg:        cfg,
		Store:      store,
		Prefix:     prefix,
		Partition:  partition,
		OuAccounts: ouAccounts,
		resolved:   make(map[string]ResolvedIdentifier),
	}
}

// mapKey carries the owner pair: the same template resource name fans out to
// several owning accounts, and those resolutions must never collide.
func mapKey(ref scope.NetworkResourceRef) string {
	if ref.VpcName == "" {
		return fmt.Sprintf("%s:%s@%s/%s", ref.Kind, ref.ResourceName, ref.OwnerAccountID, ref.OwnerRegion)
	}
	return fmt.Sprintf("%s:%s_%s@%s/%s", ref.Kind, ref.VpcName, ref.ResourceName, ref.OwnerAccountID, ref.OwnerRegion)
}

// Register stores a locally created identifier under the ref's composite key
// so later resolutions within this pass use it directly.
func (c *Context) Register(ref scope.NetworkResourceRef, value *string) {
	key := mapKey(ref)
	if _, exists := c.resolved[key]; exists {
		panic(fmt.Sprintf("resource %s registered twice within one synthesis pass", key))
	}
	c.resolved[key] = ResolvedIdentifier{Value: value, Method: MethodLocal}
}

// Registered returns a previously registered or resolved identifier.
func (c *Context) Registered(ref scope.NetworkResourceRef) (ResolvedIdentifier, bool) {
	id, ok := c.resolved[mapKey(ref)]
	return id, ok
}

// Resolve returns the identifier for ref, choosing the resolution protocol
// from the ref's class relative to this unit:
//
//   - local: direct identifier-store read;
//   - cross-account same-region: RAM share lookup when the kind has a native
//     sharing primitive, otherwise the role-assuming SSM lookup;
//   - cross-region: always the role-assuming SSM lookup (shares are
//     region-scoped).
//
// Results are memoized per composite key for the life of the Context.
func (c *Context) Resolve(ref scope.NetworkResourceRef) ResolvedIdentifier {
	key := mapKey(ref)
	if id, ok := c.resolved[key]; ok {
		return id
	}

	var id ResolvedIdentifier
	switch scope.Classify(ref, c.Unit) {
	case scope.ClassLocal:
		id = ResolvedIdentifier{
			Value:  c.Store.Read(idstore.KeyForRef(c.Store.Prefix(), ref)),
			Method: MethodLocal,
		}

	case scope.ClassCrossAccount:
		if ref.Kind.RamResourceTypeString() != "" {
			share := lookup.NewShareItemLookup(c.Scope, c.lookupID("Share", ref), &lookup.ShareItemLookupProps{
				OwnerAccountID: ref.OwnerAccountID,
				ResourceName:   ref.ResourceName,
				Kind:           ref.Kind,
			})
			id = ResolvedIdentifier{Value: share.ItemID(), Method: MethodResourceShare}
			break
		}
		id = c.ssmLookup(ref)

	case scope.ClassCrossRegion:
		id = c.ssmLookup(ref)
	}

	c.resolved[key] = id
	return id
}

func (c *Context) ssmLookup(ref scope.NetworkResourceRef) ResolvedIdentifier {
	get := lookup.NewGetParam(c.Scope, c.lookupID("Get", ref), &lookup.GetParamProps{
		OwnerAccountID: ref.OwnerAccountID,
		OwnerRegion:    ref.OwnerRegion,
		RoleName:       lookup.GetParamRoleName(c.Prefix, ref.OwnerRegion),
		Partition:      c.Partition,
		Key:            idstore.KeyForRef(c.Store.Prefix(), ref),
	})
	return ResolvedIdentifier{Value: get.Value(), Method: MethodCrossRegionLookup}
}

func (c *Context) lookupID(verb string, ref scope.NetworkResourceRef) string {
	c.lookups++
	return fmt.Sprintf("%s%s%s%d", verb, ref.Kind.ShareLabel(), idstore.KeyForRef("", ref).ConstructID(), c.lookups)
}

// Push declares propagation of local values into a remote unit's store.
func (c *Context) Push(id string, targetAccountID, targetRegion string, entries []lookup.ParamEntry) *lookup.PutParams {
	return lookup.NewPutParams(c.Scope, id, &lookup.PutParamsProps{
		TargetAccountID: targetAccountID,
		TargetRegion:    targetRegion,
		RoleName:        lookup.PutParamRoleName(c.Prefix, targetRegion),
		Partition:       c.Partition,
		Entries:         entries,
	})
}

// MustAccountID resolves a friendly account name or fails the synthesis.
func (c *Context) MustAccountID(name string) string {
	id, ok := c.Cfg.AccountID(name)
	if !ok {
		panic(fmt.Sprintf("account %s is not defined in the network configuration", name))
	}
	return id
}

// failf aborts the whole unit's synthesis with a descriptive configuration
// error. Reference errors are structural defects, never retried.
func failf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
