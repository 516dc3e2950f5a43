// ABOUTME: Typed edge model with polymorphic endpoints
// ABOUTME: Relationship types, endpoint refs, and the endpoint-kind catalogue

package relation

import (
	"errors"
	"fmt"

	"github.com/nainya/standardsgraph/pkg/entity"
)

// Type enumerates the relationship types present in the exports. The set is
// extensible through the catalogue below.
type Type string

const (
	TypeHasChild      Type = "hasChild"
	TypeBuildsTowards Type = "buildsTowards"
	TypeSupports      Type = "supports"
	TypeRelatesTo     Type = "relatesTo"
)

var (
	// ErrUnknownType indicates a relationship type outside the catalogue
	ErrUnknownType = errors.New("relation: unknown relationship type")
)

// EndpointRef addresses one end of an edge by entity kind, the attribute the
// value matches, and the value itself. This is the generalized foreign key
// the relationship exports use instead of per-kind join tables.
type EndpointRef struct {
	Kind  entity.Kind `json:"entity"`
	Key   string      `json:"entityKey"` // "caseIdentifierUUID" or "identifier"
	Value string      `json:"entityValue"`
}

// Resolve looks up the node the endpoint points at. A miss means the edge is
// dangling, a data-quality condition rather than an error.
func (r EndpointRef) Resolve(s *entity.Store) (entity.Node, bool) {
	return s.Get(r.Kind, r.Value)
}

func (r EndpointRef) String() string {
	return fmt.Sprintf("%s(%s=%s)", r.Kind, r.Key, r.Value)
}

// Relationship is a typed, directed edge between two typed endpoints.
type Relationship struct {
	Identifier string      `json:"identifier"`
	Type       Type        `json:"relationshipType"`
	Source     EndpointRef `json:"source"`
	Target     EndpointRef `json:"target"`
}

// EndpointRule names one endpoint-kind pair a relationship type may connect.
type EndpointRule struct {
	Source entity.Kind
	Target entity.Kind
}

// catalogue maps each relationship type to its allowed endpoint-kind pairs.
// Initialized once, never mutated; the index does not enforce it, the query
// facade and the integrity sweep do.
var catalogue = map[Type][]EndpointRule{
	TypeHasChild: {
		{Source: entity.KindStandardsFramework, Target: entity.KindStandardsFrameworkItem},
		{Source: entity.KindStandardsFrameworkItem, Target: entity.KindStandardsFrameworkItem},
	},
	TypeBuildsTowards: {
		{Source: entity.KindStandardsFrameworkItem, Target: entity.KindStandardsFrameworkItem},
	},
	TypeSupports: {
		{Source: entity.KindLearningComponent, Target: entity.KindStandardsFrameworkItem},
	},
	TypeRelatesTo: {
		{Source: entity.KindStandardsFrameworkItem, Target: entity.KindStandardsFrameworkItem},
	},
}

// Known reports whether the relationship type is in the catalogue.
func Known(t Type) bool {
	_, ok := catalogue[t]
	return ok
}

// ParseType validates a relationship type name coming from external data.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !Known(t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Rules returns the allowed endpoint-kind pairs for a type, nil for unknown
// types.
func Rules(t Type) []EndpointRule {
	return catalogue[t]
}

// Allowed reports whether an edge's endpoint kinds agree with the catalogue.
func Allowed(rel *Relationship) bool {
	for _, rule := range catalogue[rel.Type] {
		if rel.Source.Kind == rule.Source && rel.Target.Kind == rule.Target {
			return true
		}
	}
	return false
}
