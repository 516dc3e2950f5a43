// ABOUTME: Entity data model for the standards knowledge graph
// ABOUTME: Defines the three node kinds and their natural keys

package entity

import "time"

// Kind identifies which node collection an entity belongs to.
type Kind string

const (
	KindStandardsFramework     Kind = "StandardsFramework"
	KindStandardsFrameworkItem Kind = "StandardsFrameworkItem"
	KindLearningComponent      Kind = "LearningComponent"
)

// Kinds lists every known entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindStandardsFramework, KindStandardsFrameworkItem, KindLearningComponent}
}

// ParseKind validates a kind name coming from external data.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindStandardsFramework, KindStandardsFrameworkItem, KindLearningComponent:
		return Kind(s), nil
	default:
		return "", ErrUnknownKind
	}
}

// Node is implemented by every entity kind. Key returns the natural key
// used by relationship endpoints to address the node.
type Node interface {
	Kind() Kind
	Key() string
}

// Framework represents a standards framework (one per jurisdiction/subject
// publication). Items belong to a framework through hasChild edges, not
// through embedding.
type Framework struct {
	Identifier         string    `json:"identifier"`
	CaseIdentifierUUID string    `json:"caseIdentifierUUID"` // canonical key used by relationships
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Jurisdiction       string    `json:"jurisdiction"`
	AcademicSubject    string    `json:"academicSubject"`
	Publisher          string    `json:"publisher,omitempty"`
	LastChangeDate     time.Time `json:"lastChangeDate,omitempty"`
}

func (f *Framework) Kind() Kind  { return KindStandardsFramework }
func (f *Framework) Key() string { return f.CaseIdentifierUUID }

// GradeLevels is the decoded gradeLevel tag set. The serialized form in the
// source exports is a JSON array string; order is preserved but only
// membership is meaningful.
type GradeLevels []string

// Contains reports whether the tag is present.
func (g GradeLevels) Contains(tag string) bool {
	for _, t := range g {
		if t == tag {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of the tags is present.
func (g GradeLevels) ContainsAny(tags []string) bool {
	for _, t := range tags {
		if g.Contains(t) {
			return true
		}
	}
	return false
}

// Item represents one standard or standard grouping inside a framework.
type Item struct {
	CaseIdentifierUUID      string      `json:"caseIdentifierUUID"`
	StatementCode           string      `json:"statementCode,omitempty"` // human-readable code, e.g. 6.NS.B.4
	Description             string      `json:"description"`
	StatementType           string      `json:"statementType,omitempty"`
	NormalizedStatementType string      `json:"normalizedStatementType"` // "Standard" or "Standard Grouping"
	Jurisdiction            string      `json:"jurisdiction"`
	AcademicSubject         string      `json:"academicSubject"`
	GradeLevel              GradeLevels `json:"gradeLevel,omitempty"`
	Author                  string      `json:"author,omitempty"`
	License                 string      `json:"license,omitempty"`
	LastChangeDate          time.Time   `json:"lastChangeDate,omitempty"`
}

func (i *Item) Kind() Kind  { return KindStandardsFrameworkItem }
func (i *Item) Key() string { return i.CaseIdentifierUUID }

// IsStandard reports whether the item is a leaf standard rather than a
// grouping container.
func (i *Item) IsStandard() bool { return i.NormalizedStatementType == "Standard" }

// Component represents an atomic skill or concept. Its graph position
// relative to standards is defined entirely through supports edges.
type Component struct {
	Identifier      string `json:"identifier"`
	Description     string `json:"description"`
	AcademicSubject string `json:"academicSubject,omitempty"`
	Author          string `json:"author,omitempty"`
	License         string `json:"license,omitempty"`
}

func (c *Component) Kind() Kind  { return KindLearningComponent }
func (c *Component) Key() string { return c.Identifier }
