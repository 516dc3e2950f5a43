// ABOUTME: Tests for the integrity sweep
// ABOUTME: Verifies dangling, kind-mismatch, and multiple-parent findings

package query

import (
	"testing"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

func TestValidateCleanGraph(t *testing.T) {
	engine := setupTestEngine(t)

	if findings := engine.Validate(); len(findings) != 0 {
		t.Errorf("Expected no findings, got %v", findings)
	}
}

func TestValidateDanglingEndpoints(t *testing.T) {
	store := entity.NewStore()
	if err := store.Put(testItem("A", "A.1", "State A")); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}
	idx := relation.NewIndex([]*relation.Relationship{
		testEdge("r1", relation.TypeBuildsTowards, entity.KindStandardsFrameworkItem, "A",
			entity.KindStandardsFrameworkItem, "ghost"),
	})
	engine := NewEngine(store, idx)

	findings := engine.Validate()
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", findings)
	}
	if findings[0].Code != WarnDanglingEndpoint || findings[0].RelationshipID != "r1" {
		t.Errorf("Expected dangling_endpoint on r1, got %+v", findings[0])
	}
}

func TestValidateKindMismatch(t *testing.T) {
	store := entity.NewStore()
	for _, n := range []entity.Node{
		testItem("A", "A.1", "State A"),
		&entity.Component{Identifier: "LC1", Description: "c"},
	} {
		if err := store.Put(n); err != nil {
			t.Fatalf("Failed to put: %v", err)
		}
	}
	// supports must run component -> item, this one is reversed
	idx := relation.NewIndex([]*relation.Relationship{
		testEdge("r1", relation.TypeSupports, entity.KindStandardsFrameworkItem, "A",
			entity.KindLearningComponent, "LC1"),
	})
	engine := NewEngine(store, idx)

	findings := engine.Validate()
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", findings)
	}
	if findings[0].Code != WarnEndpointKindMismatch {
		t.Errorf("Expected endpoint_kind_mismatch, got %+v", findings[0])
	}
}

func TestValidateMultipleParents(t *testing.T) {
	store := entity.NewStore()
	for _, n := range []entity.Node{
		testItem("P1", "P.1", "State A"),
		testItem("P2", "P.2", "State A"),
		testItem("K", "K.1", "State A"),
	} {
		if err := store.Put(n); err != nil {
			t.Fatalf("Failed to put: %v", err)
		}
	}
	idx := relation.NewIndex([]*relation.Relationship{
		testEdge("r1", relation.TypeHasChild, entity.KindStandardsFrameworkItem, "P1",
			entity.KindStandardsFrameworkItem, "K"),
		testEdge("r2", relation.TypeHasChild, entity.KindStandardsFrameworkItem, "P2",
			entity.KindStandardsFrameworkItem, "K"),
	})
	engine := NewEngine(store, idx)

	findings := engine.Validate()
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %v", findings)
	}
	if findings[0].Code != WarnMultipleParents {
		t.Errorf("Expected multiple_parents, got %+v", findings[0])
	}
}

func TestValidateFrameworkEdgeIsNotAParent(t *testing.T) {
	store := entity.NewStore()
	for _, n := range []entity.Node{
		&entity.Framework{CaseIdentifierUUID: "FW", Name: "f"},
		testItem("P", "P.1", "State A"),
		testItem("K", "K.1", "State A"),
	} {
		if err := store.Put(n); err != nil {
			t.Fatalf("Failed to put: %v", err)
		}
	}
	// Framework membership plus one item parent is still a single parent
	idx := relation.NewIndex([]*relation.Relationship{
		testEdge("r1", relation.TypeHasChild, entity.KindStandardsFramework, "FW",
			entity.KindStandardsFrameworkItem, "K"),
		testEdge("r2", relation.TypeHasChild, entity.KindStandardsFrameworkItem, "P",
			entity.KindStandardsFrameworkItem, "K"),
	})
	engine := NewEngine(store, idx)

	if findings := engine.Validate(); len(findings) != 0 {
		t.Errorf("Expected no findings, got %v", findings)
	}
}
