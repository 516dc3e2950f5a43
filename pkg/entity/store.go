// ABOUTME: In-memory entity store keyed by natural key
// ABOUTME: Insertion-ordered, read-only after bulk load

package entity

import "fmt"

// collection holds one kind's nodes with O(1) lookup and insertion order.
type collection struct {
	byKey map[string]Node
	order []string
}

func newCollection() *collection {
	return &collection{byKey: make(map[string]Node)}
}

func (c *collection) put(n Node) {
	key := n.Key()
	if _, exists := c.byKey[key]; !exists {
		c.order = append(c.order, key)
	}
	c.byKey[key] = n
}

// Store holds the typed node collections. It is populated once during bulk
// import and treated as immutable afterwards, so concurrent readers need no
// locking.
type Store struct {
	collections map[Kind]*collection
}

// NewStore creates an empty store with a collection per known kind.
func NewStore() *Store {
	s := &Store{collections: make(map[Kind]*collection)}
	for _, k := range Kinds() {
		s.collections[k] = newCollection()
	}
	return s
}

// Put inserts or overwrites a node under its natural key.
func (s *Store) Put(n Node) error {
	if n.Key() == "" {
		return fmt.Errorf("%w: %s node", ErrEmptyKey, n.Kind())
	}
	col, ok := s.collections[n.Kind()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, n.Kind())
	}
	col.put(n)
	return nil
}

// Get looks up a node by kind and key. A miss returns ok=false, never an
// error.
func (s *Store) Get(kind Kind, key string) (Node, bool) {
	col, ok := s.collections[kind]
	if !ok {
		return nil, false
	}
	n, ok := col.byKey[key]
	return n, ok
}

// Require looks up a node and fails with ErrNotFound on a miss.
func (s *Store) Require(kind Kind, key string) (Node, error) {
	n, ok := s.Get(kind, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, key)
	}
	return n, nil
}

// All visits every node of a kind in insertion order. The walk stops early
// if fn returns false.
func (s *Store) All(kind Kind, fn func(Node) bool) {
	col, ok := s.collections[kind]
	if !ok {
		return
	}
	for _, key := range col.order {
		if !fn(col.byKey[key]) {
			return
		}
	}
}

// Len returns the number of nodes of a kind.
func (s *Store) Len(kind Kind) int {
	col, ok := s.collections[kind]
	if !ok {
		return 0
	}
	return len(col.order)
}

// Framework returns a typed framework node.
func (s *Store) Framework(key string) (*Framework, bool) {
	n, ok := s.Get(KindStandardsFramework, key)
	if !ok {
		return nil, false
	}
	return n.(*Framework), true
}

// Item returns a typed framework item node.
func (s *Store) Item(key string) (*Item, bool) {
	n, ok := s.Get(KindStandardsFrameworkItem, key)
	if !ok {
		return nil, false
	}
	return n.(*Item), true
}

// Component returns a typed learning component node.
func (s *Store) Component(key string) (*Component, bool) {
	n, ok := s.Get(KindLearningComponent, key)
	if !ok {
		return nil, false
	}
	return n.(*Component), true
}
