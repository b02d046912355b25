package idstore

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Store publishes and reads identifier parameters within one deployment
// unit's synthesis. Publishing is a declarative write: it emits an SSM
// StringParameter resource, it does not call AWS. Reading a key that was
// never published anywhere fails at deploy time, not here; that latent
// failure mode is accepted (cross-unit existence cannot be verified without
// live calls during synthesis).
type Store struct {
	scope     constructs.Construct
	prefix    string
	published map[string]awsssm.StringParameter
}

// NewStore creates a store rooted at scope. prefix is the installation's
// identifier namespace (for example "/lznet").
func NewStore(scope constructs.Construct, prefix string) *Store {
	return &Store{
		scope:     scope,
		prefix:    prefix,
		published: make(map[string]awsssm.StringParameter),
	}
}

// Prefix returns the store's namespace prefix.
func (s *Store) Prefix() string { return s.prefix }

// Publish declares a parameter holding value under key. Declaring the same
// logical key twice within one unit is a construction bug and panics.
func (s *Store) Publish(key Key, value *string) awsssm.StringParameter {
	path := key.String()
	if _, exists := s.published[path]; exists {
		panic(fmt.Sprintf("identifier %s published twice within one deployment unit", path))
	}

	param := awsssm.NewStringParameter(s.scope, jsii.String(key.ConstructID()), &awsssm.StringParameterProps{
		ParameterName: jsii.String(path),
		StringValue:   value,
	})
	s.published[path] = param
	return param
}

// Read returns a deploy-time reference to the parameter at key. The
// parameter must exist by the time this unit deploys, created either earlier
// in the same synthesis or by a previously deployed unit.
func (s *Store) Read(key Key) *string {
	path := key.String()
	if param, ok := s.published[path]; ok {
		return param.StringValue()
	}
	return awsssm.StringParameter_ValueForStringParameter(s.scope, jsii.String(path), nil)
}

// Published reports whether this unit already declared the key.
func (s *Store) Published(key Key) bool {
	_, ok := s.published[key.String()]
	return ok
}
