// ABOUTME: Generic closure computation over the relationship index
// ABOUTME: BFS descendants/ancestors with cycle protection, single-hop joins

package traverse

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

var (
	// ErrResourceExceeded indicates a traversal hit the configured node cap
	ErrResourceExceeded = errors.New("traverse: node limit exceeded")
)

// Direction selects which side of the index a traversal follows.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// NodeRef identifies a visited node independent of its kind's record type.
type NodeRef struct {
	Kind  entity.Kind `json:"entity"`
	Value string      `json:"value"`
}

// Engine walks typed edges over a built index. MaxNodes caps the visited set
// per traversal; zero means unbounded, which the reference data shape does
// not require but large imports might.
type Engine struct {
	idx      *relation.Index
	maxNodes int
}

// NewEngine creates a traversal engine over the index.
func NewEngine(idx *relation.Index) *Engine {
	return &Engine{idx: idx}
}

// WithMaxNodes returns an engine that fails with ErrResourceExceeded once a
// traversal has visited more than n nodes.
func (e *Engine) WithMaxNodes(n int) *Engine {
	return &Engine{idx: e.idx, maxNodes: n}
}

// Descendants computes the transitive closure following outgoing edges of
// one type from the root. The visited set guarantees termination even when
// the edge data contains a cycle. The root itself is not part of the result.
// Output is sorted by (kind, value); visitation order carries no meaning.
func (e *Engine) Descendants(t relation.Type, root NodeRef) ([]NodeRef, error) {
	return e.closure(t, root, Outgoing)
}

// Ancestors is the symmetric closure following incoming edges.
func (e *Engine) Ancestors(t relation.Type, root NodeRef) ([]NodeRef, error) {
	return e.closure(t, root, Incoming)
}

func (e *Engine) closure(t relation.Type, root NodeRef, dir Direction) ([]NodeRef, error) {
	if !relation.Known(t) {
		return nil, fmt.Errorf("%w: %q", relation.ErrUnknownType, t)
	}

	visited := map[NodeRef]bool{root: true}
	var result []NodeRef

	frontier := []NodeRef{root}
	for len(frontier) > 0 {
		var next []NodeRef

		for _, node := range frontier {
			for _, rel := range e.step(t, node, dir) {
				ref := e.far(rel, dir)
				if visited[ref] {
					continue
				}
				visited[ref] = true

				if e.maxNodes > 0 && len(visited)-1 > e.maxNodes {
					return nil, fmt.Errorf("%w: more than %d nodes from %s", ErrResourceExceeded, e.maxNodes, root)
				}

				result = append(result, ref)
				next = append(next, ref)
			}
		}

		frontier = next
	}

	sortRefs(result)
	return result, nil
}

// SingleHopJoin maps each anchor to its matched edges of the given type,
// without expanding further. Anchors with no matches are absent from the
// result map.
func (e *Engine) SingleHopJoin(t relation.Type, anchors []NodeRef, dir Direction) (map[NodeRef][]*relation.Relationship, error) {
	if !relation.Known(t) {
		return nil, fmt.Errorf("%w: %q", relation.ErrUnknownType, t)
	}

	result := make(map[NodeRef][]*relation.Relationship)
	for _, anchor := range anchors {
		if edges := e.step(t, anchor, dir); len(edges) > 0 {
			result[anchor] = edges
		}
	}
	return result, nil
}

func (e *Engine) step(t relation.Type, node NodeRef, dir Direction) []*relation.Relationship {
	if dir == Outgoing {
		return e.idx.Outgoing(t, node.Kind, node.Value)
	}
	return e.idx.Incoming(t, node.Kind, node.Value)
}

// far returns the endpoint on the far side of an edge for the walk direction.
func (e *Engine) far(rel *relation.Relationship, dir Direction) NodeRef {
	if dir == Outgoing {
		return NodeRef{Kind: rel.Target.Kind, Value: rel.Target.Value}
	}
	return NodeRef{Kind: rel.Source.Kind, Value: rel.Source.Value}
}

func sortRefs(refs []NodeRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Kind != refs[j].Kind {
			return refs[i].Kind < refs[j].Kind
		}
		return refs[i].Value < refs[j].Value
	})
}
