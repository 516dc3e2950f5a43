// ABOUTME: Tests for bulk import
// ABOUTME: Verifies CSV and NDJSON decoding, skips, and the load summary

package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nainya/standardsgraph/pkg/entity"
	"github.com/nainya/standardsgraph/pkg/relation"
)

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func testLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestLoadDirCSV(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"StandardsFramework.csv": `identifier,caseIdentifierUUID,name,jurisdiction,academicSubject,lastChangeDateTime
fw-1,fw-1,State A Math,State A,Math,2024-01-15
`,
		"StandardsFrameworkItem.csv": `caseIdentifierUUID,statementCode,description,normalizedStatementType,jurisdiction,academicSubject,gradeLevel
item-1,6.NS.B.4,Find the greatest common factor,Standard,State A,Math,"[""6"",""7""]"
`,
		"LearningComponent.csv": `identifier,description,academicSubject
lc-1,Factoring whole numbers,Math
`,
		"Relationships.csv": `identifier,relationshipType,sourceEntity,sourceEntityKey,sourceEntityValue,targetEntity,targetEntityKey,targetEntityValue
r1,hasChild,StandardsFramework,identifier,fw-1,StandardsFrameworkItem,identifier,item-1
r2,supports,LearningComponent,identifier,lc-1,StandardsFrameworkItem,identifier,item-1
`,
	})

	load, err := testLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	want := Summary{Frameworks: 1, Items: 1, Components: 1, Relationships: 2}
	if load.Summary != want {
		t.Errorf("Expected summary %+v, got %+v", want, load.Summary)
	}

	item, ok := load.Store.Item("item-1")
	if !ok {
		t.Fatal("Expected item-1 to load")
	}
	if !item.GradeLevel.Contains("6") || !item.GradeLevel.Contains("7") {
		t.Errorf("Expected decoded grade tags 6 and 7, got %v", item.GradeLevel)
	}
	if item.StatementCode != "6.NS.B.4" {
		t.Errorf("Expected statement code 6.NS.B.4, got %s", item.StatementCode)
	}

	edges := load.Index.Incoming(relation.TypeSupports, entity.KindStandardsFrameworkItem, "item-1")
	if len(edges) != 1 || edges[0].Source.Value != "lc-1" {
		t.Errorf("Expected supports edge from lc-1, got %v", edges)
	}
}

func TestLoadDirNDJSON(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"StandardsFrameworkItem.ndjson": `{"caseIdentifierUUID":"item-1","statementCode":"A.1","description":"d","normalizedStatementType":"Standard","jurisdiction":"State A","academicSubject":"Math","gradeLevel":["6"]}
{"caseIdentifierUUID":"item-2","statementCode":"A.2","description":"d","normalizedStatementType":"Standard","jurisdiction":"State A","academicSubject":"Math","gradeLevel":["7"]}
`,
		"Relationships.ndjson": `{"identifier":"r1","relationshipType":"buildsTowards","sourceEntity":"StandardsFrameworkItem","sourceEntityKey":"identifier","sourceEntityValue":"item-1","targetEntity":"StandardsFrameworkItem","targetEntityKey":"identifier","targetEntityValue":"item-2"}
`,
	})

	load, err := testLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if load.Summary.Items != 2 || load.Summary.Relationships != 1 {
		t.Errorf("Unexpected summary %+v", load.Summary)
	}

	item, ok := load.Store.Item("item-2")
	if !ok {
		t.Fatal("Expected item-2 to load")
	}
	if !item.GradeLevel.Contains("7") {
		t.Errorf("Expected grade 7, got %v", item.GradeLevel)
	}
}

func TestLoadDirCSVPreferredOverNDJSON(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"LearningComponent.csv": `identifier,description
lc-csv,from csv
`,
		"LearningComponent.ndjson": `{"identifier":"lc-ndjson","description":"from ndjson"}
`,
	})

	load, err := testLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if _, ok := load.Store.Component("lc-csv"); !ok {
		t.Error("Expected the CSV file to win")
	}
	if _, ok := load.Store.Component("lc-ndjson"); ok {
		t.Error("Expected the NDJSON file to be ignored when CSV exists")
	}
}

func TestLoadDirSkipsUnknownRelationshipType(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"StandardsFrameworkItem.csv": `caseIdentifierUUID,description
item-1,d
item-2,d
`,
		"Relationships.csv": `identifier,relationshipType,sourceEntity,sourceEntityKey,sourceEntityValue,targetEntity,targetEntityKey,targetEntityValue
r1,precedes,StandardsFrameworkItem,identifier,item-1,StandardsFrameworkItem,identifier,item-2
r2,buildsTowards,StandardsFrameworkItem,identifier,item-1,StandardsFrameworkItem,identifier,item-2
r3,buildsTowards,Widget,identifier,item-1,StandardsFrameworkItem,identifier,item-2
`,
	})

	load, err := testLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if load.Summary.Relationships != 1 {
		t.Errorf("Expected 1 usable relationship, got %d", load.Summary.Relationships)
	}
	if load.Summary.SkippedRelationships != 2 {
		t.Errorf("Expected 2 skipped relationships, got %d", load.Summary.SkippedRelationships)
	}
}

func TestLoadDirGeneratesMissingEdgeIDs(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		"Relationships.csv": `identifier,relationshipType,sourceEntity,sourceEntityKey,sourceEntityValue,targetEntity,targetEntityKey,targetEntityValue
,buildsTowards,StandardsFrameworkItem,identifier,a,StandardsFrameworkItem,identifier,b
`,
	})

	load, err := testLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	var id string
	load.Index.All(func(rel *relation.Relationship) bool {
		id = rel.Identifier
		return true
	})
	if id == "" {
		t.Error("Expected a generated identifier for the blank edge ID")
	}
}

func TestLoadDirEmptyDirectory(t *testing.T) {
	_, err := testLoader().LoadDir(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, err := testLoader().LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestDecodeGradeList(t *testing.T) {
	if got := decodeGradeList(`["6","7"]`); len(got) != 2 || got[0] != "6" || got[1] != "7" {
		t.Errorf("Expected [6 7], got %v", got)
	}
	if got := decodeGradeList("6"); len(got) != 1 || got[0] != "6" {
		t.Errorf("Expected bare value to degrade to [6], got %v", got)
	}
	if got := decodeGradeList(""); got != nil {
		t.Errorf("Expected nil for empty cell, got %v", got)
	}
}

func TestParseDateForms(t *testing.T) {
	for _, s := range []string{"2024-01-15", "2024-01-15 10:30:00", "2024-01-15T10:30:00Z"} {
		if parseDate(s).IsZero() {
			t.Errorf("Expected %q to parse", s)
		}
	}
	if !parseDate("not a date").IsZero() {
		t.Error("Expected unparseable dates to become the zero time")
	}
}
