// ABOUTME: Query facade composing store, index, and traversal
// ABOUTME: Named read-only operations over the loaded standards graph

package query

import (
	"fmt"
	"sort"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
	"github.com/nainya/standardsgraph/pkg/traverse"
)

// Engine answers the named queries over a loaded graph. All operations are
// read-only and safe for concurrent use once the store and index are built.
type Engine struct {
	store *entity.Store
	idx   *relation.Index
	trav  *traverse.Engine
}

// NewEngine creates a query engine over a built store and index.
func NewEngine(store *entity.Store, idx *relation.Index) *Engine {
	return &Engine{
		store: store,
		idx:   idx,
		trav:  traverse.NewEngine(idx),
	}
}

// WithMaxNodes caps closure traversals at n visited nodes.
func (e *Engine) WithMaxNodes(n int) *Engine {
	return &Engine{store: e.store, idx: e.idx, trav: e.trav.WithMaxNodes(n)}
}

// Stats returns collection sizes for the loaded graph.
func (e *Engine) Stats() Stats {
	return Stats{
		Frameworks:    e.store.Len(entity.KindStandardsFramework),
		Items:         e.store.Len(entity.KindStandardsFrameworkItem),
		Components:    e.store.Len(entity.KindLearningComponent),
		Relationships: e.idx.Len(),
	}
}

// ItemByID returns a framework item by its canonical UUID key.
func (e *Engine) ItemByID(itemID string) (*entity.Item, error) {
	n, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID)
	if err != nil {
		return nil, err
	}
	return n.(*entity.Item), nil
}

// ChildrenOf returns the direct hasChild children of an item, in edge input
// order.
func (e *Engine) ChildrenOf(itemID string) ([]*entity.Item, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID); err != nil {
		return nil, nil, err
	}

	edges := e.idx.Outgoing(relation.TypeHasChild, entity.KindStandardsFrameworkItem, itemID)
	return e.resolveItems(edges, targetEnd)
}

// ParentOf returns the hasChild parent of an item, or nil when the item is a
// root. If the forest invariant is violated the first parent in input order
// is returned along with a multiple_parents warning.
func (e *Engine) ParentOf(itemID string) (*entity.Item, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID); err != nil {
		return nil, nil, err
	}

	// Framework membership edges are not item parents
	var edges []*relation.Relationship
	for _, rel := range e.idx.Incoming(relation.TypeHasChild, entity.KindStandardsFrameworkItem, itemID) {
		if rel.Source.Kind == entity.KindStandardsFrameworkItem {
			edges = append(edges, rel)
		}
	}
	if len(edges) == 0 {
		return nil, nil, nil
	}

	var warnings Warnings
	if len(edges) > 1 {
		warnings = append(warnings, Warning{
			Code:           WarnMultipleParents,
			RelationshipID: edges[1].Identifier,
			Message:        fmt.Sprintf("item %s has %d hasChild parents", itemID, len(edges)),
		})
	}

	parents, resolveWarnings, err := e.resolveItems(edges[:1], sourceEnd)
	warnings = append(warnings, resolveWarnings...)
	if err != nil || len(parents) == 0 {
		return nil, warnings, err
	}
	return parents[0], warnings, nil
}

// AllDescendants returns the full hasChild closure under a framework, seeded
// from its direct children. Result order follows the traversal's sorted
// (kind, value) contract.
func (e *Engine) AllDescendants(frameworkID string) ([]*entity.Item, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFramework, frameworkID); err != nil {
		return nil, nil, err
	}

	root := traverse.NodeRef{Kind: entity.KindStandardsFramework, Value: frameworkID}
	refs, err := e.trav.Descendants(relation.TypeHasChild, root)
	if err != nil {
		return nil, nil, err
	}

	var items []*entity.Item
	var warnings Warnings
	for _, ref := range refs {
		item, ok := e.store.Item(ref.Value)
		if !ok {
			warnings = append(warnings, Warning{
				Code:    WarnDanglingEndpoint,
				Message: fmt.Sprintf("hasChild reaches missing %s %s", ref.Kind, ref.Value),
			})
			continue
		}
		items = append(items, item)
	}
	return items, warnings, nil
}

// PrerequisitesOf returns the standards that build towards the given item.
func (e *Engine) PrerequisitesOf(itemID string) ([]*entity.Item, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID); err != nil {
		return nil, nil, err
	}

	edges := e.idx.Incoming(relation.TypeBuildsTowards, entity.KindStandardsFrameworkItem, itemID)
	return e.resolveItems(edges, sourceEnd)
}

// SupportingComponents returns the learning components with a supports edge
// into the given item. An item with no incoming supports edges yields an
// empty sequence, not an error.
func (e *Engine) SupportingComponents(itemID string) ([]*entity.Component, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID); err != nil {
		return nil, nil, err
	}

	edges := e.idx.Incoming(relation.TypeSupports, entity.KindStandardsFrameworkItem, itemID)

	var components []*entity.Component
	var warnings Warnings
	for _, rel := range edges {
		comp, ok := e.store.Component(rel.Source.Value)
		if !ok {
			warnings = append(warnings, danglingWarning(rel, rel.Source))
			continue
		}
		components = append(components, comp)
	}
	return components, warnings, nil
}

// RelatedStandards returns the standards connected to the item by relatesTo
// edges. Each stored edge contributes in its stored direction only; symmetry
// is not assumed. Duplicates from reciprocal edges are removed.
func (e *Engine) RelatedStandards(itemID string) ([]*entity.Item, Warnings, error) {
	if _, err := e.store.Require(entity.KindStandardsFrameworkItem, itemID); err != nil {
		return nil, nil, err
	}

	var items []*entity.Item
	var warnings Warnings
	seen := make(map[string]bool)

	collect := func(edges []*relation.Relationship, end edgeEnd) {
		for _, rel := range edges {
			ref := endpoint(rel, end)
			if seen[ref.Value] {
				continue
			}
			seen[ref.Value] = true

			item, ok := e.store.Item(ref.Value)
			if !ok {
				warnings = append(warnings, danglingWarning(rel, ref))
				continue
			}
			items = append(items, item)
		}
	}

	collect(e.idx.Outgoing(relation.TypeRelatesTo, entity.KindStandardsFrameworkItem, itemID), targetEnd)
	collect(e.idx.Incoming(relation.TypeRelatesTo, entity.KindStandardsFrameworkItem, itemID), sourceEnd)

	return items, warnings, nil
}

// ComponentsInGrade returns the learning components supporting any item whose
// gradeLevel set contains the tag, optionally restricted to a jurisdiction.
// This is a filter plus join, O(items + edges), not a traversal.
func (e *Engine) ComponentsInGrade(gradeTag, jurisdiction string) ([]*entity.Component, Warnings, error) {
	if gradeTag == "" {
		return nil, nil, fmt.Errorf("%w: empty grade tag", ErrInvalidFilter)
	}

	var components []*entity.Component
	var warnings Warnings
	seen := make(map[string]bool)

	e.store.All(entity.KindStandardsFrameworkItem, func(n entity.Node) bool {
		item := n.(*entity.Item)
		if !item.GradeLevel.Contains(gradeTag) {
			return true
		}
		if jurisdiction != "" && item.Jurisdiction != jurisdiction {
			return true
		}

		for _, rel := range e.idx.Incoming(relation.TypeSupports, entity.KindStandardsFrameworkItem, item.CaseIdentifierUUID) {
			if seen[rel.Source.Value] {
				continue
			}
			seen[rel.Source.Value] = true

			comp, ok := e.store.Component(rel.Source.Value)
			if !ok {
				warnings = append(warnings, danglingWarning(rel, rel.Source))
				continue
			}
			components = append(components, comp)
		}
		return true
	})

	sort.Slice(components, func(i, j int) bool {
		return components[i].Identifier < components[j].Identifier
	})
	return components, warnings, nil
}

// Items returns the framework items matching the filter, in store insertion
// order.
func (e *Engine) Items(filter ItemFilter) []*entity.Item {
	var items []*entity.Item
	e.store.All(entity.KindStandardsFrameworkItem, func(n entity.Node) bool {
		item := n.(*entity.Item)
		if filter.Matches(item) {
			items = append(items, item)
		}
		return true
	})
	return items
}

// ItemByStatementCode locates a standard by its human-readable code within a
// jurisdiction. Codes repeat across jurisdictions, so an empty jurisdiction
// returns the first match in insertion order.
func (e *Engine) ItemByStatementCode(code, jurisdiction string) (*entity.Item, error) {
	var found *entity.Item
	e.store.All(entity.KindStandardsFrameworkItem, func(n entity.Node) bool {
		item := n.(*entity.Item)
		if item.StatementCode != code {
			return true
		}
		if jurisdiction != "" && item.Jurisdiction != jurisdiction {
			return true
		}
		found = item
		return false
	})
	if found == nil {
		return nil, fmt.Errorf("%w: statementCode %q jurisdiction %q", entity.ErrNotFound, code, jurisdiction)
	}
	return found, nil
}

// FrameworksBySubject returns the frameworks for an academic subject.
func (e *Engine) FrameworksBySubject(subject string) []*entity.Framework {
	var frameworks []*entity.Framework
	e.store.All(entity.KindStandardsFramework, func(n entity.Node) bool {
		fw := n.(*entity.Framework)
		if fw.AcademicSubject == subject {
			frameworks = append(frameworks, fw)
		}
		return true
	})
	return frameworks
}

// FrameworkFor returns the framework for a jurisdiction and subject.
func (e *Engine) FrameworkFor(jurisdiction, subject string) (*entity.Framework, error) {
	var found *entity.Framework
	e.store.All(entity.KindStandardsFramework, func(n entity.Node) bool {
		fw := n.(*entity.Framework)
		if fw.Jurisdiction == jurisdiction && fw.AcademicSubject == subject {
			found = fw
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: framework for %q/%q", entity.ErrNotFound, jurisdiction, subject)
	}
	return found, nil
}

// StandardsSharingComponents finds standards in another jurisdiction that
// share supporting learning components with the anchor item, ranked by
// shared-component count. This is the cross-framework comparison pattern.
func (e *Engine) StandardsSharingComponents(itemID, jurisdiction string) ([]SharedStandard, Warnings, error) {
	components, warnings, err := e.SupportingComponents(itemID)
	if err != nil {
		return nil, nil, err
	}

	type overlap struct {
		item       *entity.Item
		components []string
	}
	overlaps := make(map[string]*overlap)

	for _, comp := range components {
		for _, rel := range e.idx.Outgoing(relation.TypeSupports, entity.KindLearningComponent, comp.Identifier) {
			targetID := rel.Target.Value
			if targetID == itemID {
				continue
			}

			item, ok := e.store.Item(targetID)
			if !ok {
				warnings = append(warnings, danglingWarning(rel, rel.Target))
				continue
			}
			if jurisdiction != "" && item.Jurisdiction != jurisdiction {
				continue
			}

			o, exists := overlaps[targetID]
			if !exists {
				o = &overlap{item: item}
				overlaps[targetID] = o
			}
			o.components = append(o.components, comp.Identifier)
		}
	}

	results := make([]SharedStandard, 0, len(overlaps))
	for _, o := range overlaps {
		results = append(results, SharedStandard{
			Item:             o.item,
			SharedCount:      len(o.components),
			SharedComponents: o.components,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].SharedCount != results[j].SharedCount {
			return results[i].SharedCount > results[j].SharedCount
		}
		return results[i].Item.StatementCode < results[j].Item.StatementCode
	})
	return results, warnings, nil
}

// Internal helpers

type edgeEnd int

const (
	sourceEnd edgeEnd = iota
	targetEnd
)

func endpoint(rel *relation.Relationship, end edgeEnd) relation.EndpointRef {
	if end == sourceEnd {
		return rel.Source
	}
	return rel.Target
}

// resolveItems materializes the item on one end of each edge, collecting
// dangling-endpoint warnings for misses.
func (e *Engine) resolveItems(edges []*relation.Relationship, end edgeEnd) ([]*entity.Item, Warnings, error) {
	var items []*entity.Item
	var warnings Warnings
	for _, rel := range edges {
		ref := endpoint(rel, end)
		item, ok := e.store.Item(ref.Value)
		if !ok {
			warnings = append(warnings, danglingWarning(rel, ref))
			continue
		}
		items = append(items, item)
	}
	return items, warnings, nil
}

func danglingWarning(rel *relation.Relationship, ref relation.EndpointRef) Warning {
	return Warning{
		Code:           WarnDanglingEndpoint,
		RelationshipID: rel.Identifier,
		Message:        fmt.Sprintf("%s edge %s references missing %s", rel.Type, rel.Identifier, ref),
	}
}
