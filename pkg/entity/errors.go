// Package entity holds the typed node collections of the knowledge graph.
package entity

import "errors"

var (
	// ErrNotFound indicates a Require call for a key that is not present
	ErrNotFound = errors.New("entity: not found")

	// ErrUnknownKind indicates an entity kind name outside the known set
	ErrUnknownKind = errors.New("entity: unknown kind")

	// ErrEmptyKey indicates a node whose natural key is empty
	ErrEmptyKey = errors.New("entity: empty key")
)
