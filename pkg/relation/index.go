// ABOUTME: Build-once edge index over the relationship list
// ABOUTME: O(1) outgoing/incoming lookup keyed by (type, kind, value)

package relation

import "github.com/nainya/standardsgraph/pkg/entity"

// indexKey is the composite lookup tuple. The same shape serves both
// directions: for the outgoing map it carries the source endpoint, for the
// incoming map the target endpoint.
type indexKey struct {
	typ   Type
	kind  entity.Kind
	value string
}

// Index provides direction-aware edge lookup. It is built in a single O(E)
// pass and never modified afterwards, so it is safe for concurrent readers.
type Index struct {
	edges    []*Relationship
	outgoing map[indexKey][]*Relationship
	incoming map[indexKey][]*Relationship
}

// NewIndex builds the index from the raw edge list. Edge order within each
// bucket follows input order.
func NewIndex(edges []*Relationship) *Index {
	idx := &Index{
		edges:    edges,
		outgoing: make(map[indexKey][]*Relationship),
		incoming: make(map[indexKey][]*Relationship),
	}

	for _, rel := range edges {
		outKey := indexKey{typ: rel.Type, kind: rel.Source.Kind, value: rel.Source.Value}
		idx.outgoing[outKey] = append(idx.outgoing[outKey], rel)

		inKey := indexKey{typ: rel.Type, kind: rel.Target.Kind, value: rel.Target.Value}
		idx.incoming[inKey] = append(idx.incoming[inKey], rel)
	}

	return idx
}

// Outgoing returns all edges of the given type leaving the typed node, in
// input order. An unknown tuple yields an empty slice.
func (idx *Index) Outgoing(t Type, kind entity.Kind, value string) []*Relationship {
	return idx.outgoing[indexKey{typ: t, kind: kind, value: value}]
}

// Incoming is the symmetric lookup for edges arriving at the typed node.
func (idx *Index) Incoming(t Type, kind entity.Kind, value string) []*Relationship {
	return idx.incoming[indexKey{typ: t, kind: kind, value: value}]
}

// All visits every edge in input order. The walk stops early if fn returns
// false.
func (idx *Index) All(fn func(*Relationship) bool) {
	for _, rel := range idx.edges {
		if !fn(rel) {
			return
		}
	}
}

// Len returns the total edge count.
func (idx *Index) Len() int { return len(idx.edges) }
