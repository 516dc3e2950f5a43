// ABOUTME: Tests for the entity store
// ABOUTME: Verifies keyed lookup, insertion order, and error kinds

package entity

import (
	"errors"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	store := NewStore()

	item := &Item{
		CaseIdentifierUUID: "item-1",
		StatementCode:      "6.NS.B.4",
		Description:        "Find the greatest common factor",
		Jurisdiction:       "State A",
	}
	if err := store.Put(item); err != nil {
		t.Fatalf("Failed to put item: %v", err)
	}

	got, ok := store.Get(KindStandardsFrameworkItem, "item-1")
	if !ok {
		t.Fatal("Expected item-1 to be found")
	}
	if got.(*Item).StatementCode != "6.NS.B.4" {
		t.Errorf("Expected statement code 6.NS.B.4, got %s", got.(*Item).StatementCode)
	}
}

func TestGetMissReturnsFalseNotError(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get(KindStandardsFrameworkItem, "nope"); ok {
		t.Error("Expected miss for unknown key")
	}
	if _, ok := store.Get(Kind("Bogus"), "nope"); ok {
		t.Error("Expected miss for unknown kind")
	}
}

func TestRequireWrapsNotFound(t *testing.T) {
	store := NewStore()

	_, err := store.Require(KindLearningComponent, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPutEmptyKey(t *testing.T) {
	store := NewStore()

	err := store.Put(&Framework{Name: "no key"})
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Expected ErrEmptyKey, got %v", err)
	}
}

func TestPutOverwritesSameKey(t *testing.T) {
	store := NewStore()

	if err := store.Put(&Component{Identifier: "lc-1", Description: "first"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}
	if err := store.Put(&Component{Identifier: "lc-1", Description: "second"}); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	if store.Len(KindLearningComponent) != 1 {
		t.Errorf("Expected 1 component, got %d", store.Len(KindLearningComponent))
	}
	comp, _ := store.Component("lc-1")
	if comp.Description != "second" {
		t.Errorf("Expected overwrite to win, got %q", comp.Description)
	}
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	store := NewStore()

	keys := []string{"c", "a", "b"}
	for _, k := range keys {
		if err := store.Put(&Item{CaseIdentifierUUID: k}); err != nil {
			t.Fatalf("Failed to put %s: %v", k, err)
		}
	}

	var seen []string
	store.All(KindStandardsFrameworkItem, func(n Node) bool {
		seen = append(seen, n.Key())
		return true
	})

	if len(seen) != len(keys) {
		t.Fatalf("Expected %d items, got %d", len(keys), len(seen))
	}
	for i, k := range keys {
		if seen[i] != k {
			t.Errorf("Position %d: expected %s, got %s", i, k, seen[i])
		}
	}
}

func TestAllEarlyStop(t *testing.T) {
	store := NewStore()
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Put(&Item{CaseIdentifierUUID: k}); err != nil {
			t.Fatalf("Failed to put %s: %v", k, err)
		}
	}

	count := 0
	store.All(KindStandardsFrameworkItem, func(n Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Expected walk to stop after 2 nodes, visited %d", count)
	}
}

func TestTypedAccessors(t *testing.T) {
	store := NewStore()
	if err := store.Put(&Framework{CaseIdentifierUUID: "fw-1", Name: "Math"}); err != nil {
		t.Fatalf("Failed to put framework: %v", err)
	}

	fw, ok := store.Framework("fw-1")
	if !ok || fw.Name != "Math" {
		t.Errorf("Expected framework Math, got %+v ok=%v", fw, ok)
	}
	if _, ok := store.Item("fw-1"); ok {
		t.Error("Framework key must not resolve as an item")
	}
}

func TestGradeLevelsMembership(t *testing.T) {
	grades := GradeLevels{"6", "7"}

	if !grades.Contains("6") {
		t.Error("Expected grade 6 to be present")
	}
	if grades.Contains("8") {
		t.Error("Expected grade 8 to be absent")
	}
	if !grades.ContainsAny([]string{"8", "7"}) {
		t.Error("Expected overlap with {8,7}")
	}
	if grades.ContainsAny([]string{"8", "9"}) {
		t.Error("Expected no overlap with {8,9}")
	}
	if GradeLevels(nil).ContainsAny([]string{"6"}) {
		t.Error("Empty grade set must not match")
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("StandardsFramework"); err != nil {
		t.Errorf("Expected StandardsFramework to parse: %v", err)
	}
	if _, err := ParseKind("Widget"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}
