// Package query composes the entity store, relationship index, and traversal
// engine into the named query operations of the knowledge graph.
package query

import "errors"

var (
	// ErrInvalidFilter indicates a malformed filter argument
	ErrInvalidFilter = errors.New("query: invalid filter")
)
