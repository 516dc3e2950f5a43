// ABOUTME: Result and warning types for the query facade
// ABOUTME: Integrity findings travel with results instead of aborting queries

package query

import (
	"fmt"

	"github.com/nainya/standardsgraph/pkg/entity"
)

// WarningCode classifies a data-integrity finding.
type WarningCode string

const (
	// WarnDanglingEndpoint flags an edge endpoint that resolves to no node
	WarnDanglingEndpoint WarningCode = "dangling_endpoint"

	// WarnMultipleParents flags a hasChild node with more than one parent
	WarnMultipleParents WarningCode = "multiple_parents"

	// WarnEndpointKindMismatch flags endpoint kinds outside the catalogue
	WarnEndpointKindMismatch WarningCode = "endpoint_kind_mismatch"
)

// Warning reports one integrity finding. The source dataset is externally
// curated, so partial inconsistency degrades only the queries that touch it.
type Warning struct {
	Code           WarningCode `json:"code"`
	RelationshipID string      `json:"relationshipId,omitempty"`
	Message        string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// Warnings is the ordered finding list attached to a result.
type Warnings []Warning

// ItemFilter selects framework items by attribute. Empty fields match
// everything; GradeAny is a membership test over the decoded gradeLevel
// tag set.
type ItemFilter struct {
	Jurisdiction            string   `json:"jurisdiction,omitempty"`
	AcademicSubject         string   `json:"academicSubject,omitempty"`
	NormalizedStatementType string   `json:"normalizedStatementType,omitempty"`
	GradeAny                []string `json:"gradeAny,omitempty"`
}

// Matches reports whether an item passes the filter.
func (f ItemFilter) Matches(item *entity.Item) bool {
	if f.Jurisdiction != "" && item.Jurisdiction != f.Jurisdiction {
		return false
	}
	if f.AcademicSubject != "" && item.AcademicSubject != f.AcademicSubject {
		return false
	}
	if f.NormalizedStatementType != "" && item.NormalizedStatementType != f.NormalizedStatementType {
		return false
	}
	if len(f.GradeAny) > 0 && !item.GradeLevel.ContainsAny(f.GradeAny) {
		return false
	}
	return true
}

// SharedStandard is one row of a cross-jurisdiction comparison: a standard
// reached through the learning components it shares with the anchor.
type SharedStandard struct {
	Item             *entity.Item `json:"item"`
	SharedCount      int          `json:"sharedCount"`
	SharedComponents []string     `json:"sharedComponents"` // component identifiers
}

// Stats summarizes the loaded graph.
type Stats struct {
	Frameworks    int `json:"frameworks"`
	Items         int `json:"items"`
	Components    int `json:"components"`
	Relationships int `json:"relationships"`
}
