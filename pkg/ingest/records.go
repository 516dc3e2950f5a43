// ABOUTME: Wire-format records for the bulk-import feed
// ABOUTME: Shared by the CSV and NDJSON decoders, coerced into entity types

package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

// Export file base names, as distributed in the dataset.
const (
	FileFrameworks    = "StandardsFramework"
	FileItems         = "StandardsFrameworkItem"
	FileComponents    = "LearningComponent"
	FileRelationships = "Relationships"
)

// frameworkRecord mirrors one StandardsFramework row.
type frameworkRecord struct {
	Identifier         string `json:"identifier"`
	CaseIdentifierUUID string `json:"caseIdentifierUUID"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Jurisdiction       string `json:"jurisdiction"`
	AcademicSubject    string `json:"academicSubject"`
	Publisher          string `json:"publisher"`
	LastChangeDate     string `json:"lastChangeDateTime"`
}

func (r frameworkRecord) toEntity() *entity.Framework {
	return &entity.Framework{
		Identifier:         r.Identifier,
		CaseIdentifierUUID: r.CaseIdentifierUUID,
		Name:               r.Name,
		Description:        r.Description,
		Jurisdiction:       r.Jurisdiction,
		AcademicSubject:    r.AcademicSubject,
		Publisher:          r.Publisher,
		LastChangeDate:     parseDate(r.LastChangeDate),
	}
}

// itemRecord mirrors one StandardsFrameworkItem row. GradeLevel carries the
// raw serialized list for CSV; NDJSON inputs may provide the decoded array
// instead.
type itemRecord struct {
	CaseIdentifierUUID      string   `json:"caseIdentifierUUID"`
	StatementCode           string   `json:"statementCode"`
	Description             string   `json:"description"`
	StatementType           string   `json:"statementType"`
	NormalizedStatementType string   `json:"normalizedStatementType"`
	Jurisdiction            string   `json:"jurisdiction"`
	AcademicSubject         string   `json:"academicSubject"`
	GradeLevelRaw           string   `json:"-"`
	GradeLevel              []string `json:"gradeLevel"`
	Author                  string   `json:"author"`
	License                 string   `json:"license"`
	LastChangeDate          string   `json:"lastChangeDateTime"`
}

func (r itemRecord) toEntity() *entity.Item {
	grades := entity.GradeLevels(r.GradeLevel)
	if len(grades) == 0 && r.GradeLevelRaw != "" {
		grades = decodeGradeList(r.GradeLevelRaw)
	}
	return &entity.Item{
		CaseIdentifierUUID:      r.CaseIdentifierUUID,
		StatementCode:           r.StatementCode,
		Description:             r.Description,
		StatementType:           r.StatementType,
		NormalizedStatementType: r.NormalizedStatementType,
		Jurisdiction:            r.Jurisdiction,
		AcademicSubject:         r.AcademicSubject,
		GradeLevel:              grades,
		Author:                  r.Author,
		License:                 r.License,
		LastChangeDate:          parseDate(r.LastChangeDate),
	}
}

// componentRecord mirrors one LearningComponent row.
type componentRecord struct {
	Identifier      string `json:"identifier"`
	Description     string `json:"description"`
	AcademicSubject string `json:"academicSubject"`
	Author          string `json:"author"`
	License         string `json:"license"`
}

func (r componentRecord) toEntity() *entity.Component {
	return &entity.Component{
		Identifier:      r.Identifier,
		Description:     r.Description,
		AcademicSubject: r.AcademicSubject,
		Author:          r.Author,
		License:         r.License,
	}
}

// relationshipRecord mirrors one Relationships row in its flat export form.
type relationshipRecord struct {
	Identifier        string `json:"identifier"`
	RelationshipType  string `json:"relationshipType"`
	SourceEntity      string `json:"sourceEntity"`
	SourceEntityKey   string `json:"sourceEntityKey"`
	SourceEntityValue string `json:"sourceEntityValue"`
	TargetEntity      string `json:"targetEntity"`
	TargetEntityKey   string `json:"targetEntityKey"`
	TargetEntityValue string `json:"targetEntityValue"`
}

// toEdge validates the type and endpoint kinds. Rows missing an identifier
// get a generated one so warnings can reference the edge later.
func (r relationshipRecord) toEdge() (*relation.Relationship, error) {
	relType, err := relation.ParseType(r.RelationshipType)
	if err != nil {
		return nil, err
	}
	sourceKind, err := entity.ParseKind(r.SourceEntity)
	if err != nil {
		return nil, err
	}
	targetKind, err := entity.ParseKind(r.TargetEntity)
	if err != nil {
		return nil, err
	}

	id := r.Identifier
	if id == "" {
		id = uuid.New().String()
	}

	return &relation.Relationship{
		Identifier: id,
		Type:       relType,
		Source:     relation.EndpointRef{Kind: sourceKind, Key: r.SourceEntityKey, Value: r.SourceEntityValue},
		Target:     relation.EndpointRef{Kind: targetKind, Key: r.TargetEntityKey, Value: r.TargetEntityValue},
	}, nil
}

// parseDate accepts the timestamp and date-only forms seen in the exports.
// Unparseable values become the zero time rather than failing the row.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
