// ABOUTME: Full-graph integrity sweep
// ABOUTME: Surfaces the invariants the sample queries assumed implicitly

package query

import (
	"fmt"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

// Validate sweeps every edge and reports integrity findings: endpoints that
// resolve to no node, endpoint kinds outside the catalogue, and hasChild
// items with more than one parent. Findings are data, not failures.
func (e *Engine) Validate() Warnings {
	var warnings Warnings
	parents := make(map[string]int)

	e.idx.All(func(rel *relation.Relationship) bool {
		if !relation.Allowed(rel) {
			warnings = append(warnings, Warning{
				Code:           WarnEndpointKindMismatch,
				RelationshipID: rel.Identifier,
				Message: fmt.Sprintf("%s edge %s connects %s to %s",
					rel.Type, rel.Identifier, rel.Source.Kind, rel.Target.Kind),
			})
		}

		if _, ok := rel.Source.Resolve(e.store); !ok {
			warnings = append(warnings, danglingWarning(rel, rel.Source))
		}
		if _, ok := rel.Target.Resolve(e.store); !ok {
			warnings = append(warnings, danglingWarning(rel, rel.Target))
		}

		if rel.Type == relation.TypeHasChild &&
			rel.Source.Kind == entity.KindStandardsFrameworkItem &&
			rel.Target.Kind == entity.KindStandardsFrameworkItem {
			parents[rel.Target.Value]++
		}
		return true
	})

	e.store.All(entity.KindStandardsFrameworkItem, func(n entity.Node) bool {
		if count := parents[n.Key()]; count > 1 {
			warnings = append(warnings, Warning{
				Code:    WarnMultipleParents,
				Message: fmt.Sprintf("item %s has %d hasChild parents", n.Key(), count),
			})
		}
		return true
	})

	return warnings
}
