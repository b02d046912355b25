package netbuild

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/accelera/lznet/lib/idstore"
	"github.com/accelera/lznet/lib/lookup"
	"github.com/accelera/lznet/lib/scope"
)

// PeeringResources is the per-unit view of one configured peering. Derived
// once from configuration and reused by both the connection builder and the
// route builders.
type PeeringResources struct {
	Name         string
	Requester    scope.NetworkResourceRef
	Accepter     scope.NetworkResourceRef
	CrossAccount bool
	CrossRegion  bool

	// ConnectionID is set when this unit can reference the connection:
	// directly for the requester, via pushed identifier for the accepter.
	ConnectionID *string
}

// BuildVpcPeerings declares peering connections for every configured peering
// whose requester VPC is in scope, and resolves pushed connection ids for
// in-scope accepters. The requester side pushes the connection id into the
// accepter's identifier store, because the accepter's unit cannot resolve a
// resource the requester has not yet created; the push is fire-and-forget.
func BuildVpcPeerings(ctx *Context, node constructs.Construct, built map[string]*VpcResources) map[string]*PeeringResources {
	peerings := make(map[string]*PeeringResources)

	for _, cfg := range ctx.Cfg.VpcPeerings {
		requesterRef := ctx.VpcRefByName(cfg.Vpcs[0])
		accepterRef := ctx.VpcRefByName(cfg.Vpcs[1])

		p := &PeeringResources{
			Name:         cfg.Name,
			Requester:    requesterRef,
			Accepter:     accepterRef,
			CrossAccount: requesterRef.OwnerAccountID != accepterRef.OwnerAccountID,
			CrossRegion:  requesterRef.OwnerRegion != accepterRef.OwnerRegion,
		}
		peerings[cfg.Name] = p

		requesterLocal := scope.IsLocal(requesterRef, ctx.Unit)
		accepterLocal := scope.IsLocal(accepterRef, ctx.Unit)

		if requesterLocal {
			requesterVpc, ok := built[cfg.Vpcs[0]]
			if !ok {
				failf("vpc peering %s: requester vpc %s is in scope but was not built", cfg.Name, cfg.Vpcs[0])
			}

			// VPC ids have no native sharing primitive; a cross-account
			// accepter id always comes through the SSM lookup path.
			accepterVpcID := ctx.Resolve(accepterRef)

			props := &awsec2.CfnVPCPeeringConnectionProps{
				VpcId:     requesterVpc.Vpc.Ref(),
				PeerVpcId: accepterVpcID.Value,
			}
			if p.CrossAccount {
				props.PeerOwnerId = jsii.String(accepterRef.OwnerAccountID)
				props.PeerRoleArn = jsii.String(lookup.RoleArn(ctx.Partition, accepterRef.OwnerAccountID,
					lookup.VpcPeeringRoleName(ctx.Prefix, accepterRef.OwnerRegion)))
			}
			if p.CrossRegion {
				props.PeerRegion = jsii.String(accepterRef.OwnerRegion)
			}

			conn := awsec2.NewCfnVPCPeeringConnection(node, jsii.String("Peering"+sanitizeID(cfg.Name)), props)
			p.ConnectionID = conn.Ref()

			ownRef := scope.NetworkResourceRef{
				VpcName:        cfg.Vpcs[0],
				Kind:           scope.ResourceTypePeering,
				ResourceName:   cfg.Name,
				OwnerAccountID: ctx.Unit.AccountID,
				OwnerRegion:    ctx.Unit.Region,
			}
			ctx.Register(ownRef, conn.Ref())
			ctx.Store.Publish(idstore.KeyForRef(ctx.Store.Prefix(), ownRef), conn.Ref())

			if !accepterLocal {
				push := ctx.Push("PushPeering"+sanitizeID(cfg.Name),
					accepterRef.OwnerAccountID, accepterRef.OwnerRegion,
					[]lookup.ParamEntry{{
						Key:   accepterPeeringKey(ctx, cfg.Name, accepterRef),
						Value: conn.Ref(),
					}})
				push.Resource().Node().AddDependency(conn)
			}
		}

		if accepterLocal && !requesterLocal {
			// The requester's unit pushed the id into this unit's store.
			p.ConnectionID = ctx.Store.Read(accepterPeeringKey(ctx, cfg.Name, accepterRef))
		}
	}

	return peerings
}

// accepterPeeringKey is the agreed location of a pushed peering connection
// id inside the accepter unit's store.
func accepterPeeringKey(ctx *Context, peeringName string, accepterRef scope.NetworkResourceRef) idstore.Key {
	return idstore.KeyForRef(ctx.Store.Prefix(), scope.NetworkResourceRef{
		VpcName:        accepterRef.VpcName,
		Kind:           scope.ResourceTypePeering,
		ResourceName:   peeringName,
		OwnerAccountID: accepterRef.OwnerAccountID,
		OwnerRegion:    accepterRef.OwnerRegion,
	})
}
