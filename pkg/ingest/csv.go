// ABOUTME: CSV decoding for the export files
// ABOUTME: Header-mapped rows, gradeLevel JSON-array cells decoded in place

package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// header maps column names to positions so exports may reorder or omit
// optional columns.
type header map[string]int

func readHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.TrimSpace(name)] = i
	}
	return h
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// decodeGradeList decodes the gradeLevel cell, which the exports serialize
// as a JSON array string like ["6","7"]. Bare values degrade to a single tag.
func decodeGradeList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags
	}
	return []string{raw}
}

// readCSV consumes a CSV stream with a header row, invoking row for each
// data record.
func readCSV(r io.Reader, row func(h header, record []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	h := readHeader(first)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := row(h, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func csvFrameworks(r io.Reader) ([]frameworkRecord, error) {
	var records []frameworkRecord
	err := readCSV(r, func(h header, rec []string) error {
		records = append(records, frameworkRecord{
			Identifier:         h.get(rec, "identifier"),
			CaseIdentifierUUID: h.get(rec, "caseIdentifierUUID"),
			Name:               h.get(rec, "name"),
			Description:        h.get(rec, "description"),
			Jurisdiction:       h.get(rec, "jurisdiction"),
			AcademicSubject:    h.get(rec, "academicSubject"),
			Publisher:          h.get(rec, "publisher"),
			LastChangeDate:     h.get(rec, "lastChangeDateTime"),
		})
		return nil
	})
	return records, err
}

func csvItems(r io.Reader) ([]itemRecord, error) {
	var records []itemRecord
	err := readCSV(r, func(h header, rec []string) error {
		records = append(records, itemRecord{
			CaseIdentifierUUID:      h.get(rec, "caseIdentifierUUID"),
			StatementCode:           h.get(rec, "statementCode"),
			Description:             h.get(rec, "description"),
			StatementType:           h.get(rec, "statementType"),
			NormalizedStatementType: h.get(rec, "normalizedStatementType"),
			Jurisdiction:            h.get(rec, "jurisdiction"),
			AcademicSubject:         h.get(rec, "academicSubject"),
			GradeLevelRaw:           h.get(rec, "gradeLevel"),
			Author:                  h.get(rec, "author"),
			License:                 h.get(rec, "license"),
			LastChangeDate:          h.get(rec, "lastChangeDateTime"),
		})
		return nil
	})
	return records, err
}

func csvComponents(r io.Reader) ([]componentRecord, error) {
	var records []componentRecord
	err := readCSV(r, func(h header, rec []string) error {
		records = append(records, componentRecord{
			Identifier:      h.get(rec, "identifier"),
			Description:     h.get(rec, "description"),
			AcademicSubject: h.get(rec, "academicSubject"),
			Author:          h.get(rec, "author"),
			License:         h.get(rec, "license"),
		})
		return nil
	})
	return records, err
}

func csvRelationships(r io.Reader) ([]relationshipRecord, error) {
	var records []relationshipRecord
	err := readCSV(r, func(h header, rec []string) error {
		records = append(records, relationshipRecord{
			Identifier:        h.get(rec, "identifier"),
			RelationshipType:  h.get(rec, "relationshipType"),
			SourceEntity:      h.get(rec, "sourceEntity"),
			SourceEntityKey:   h.get(rec, "sourceEntityKey"),
			SourceEntityValue: h.get(rec, "sourceEntityValue"),
			TargetEntity:      h.get(rec, "targetEntity"),
			TargetEntityKey:   h.get(rec, "targetEntityKey"),
			TargetEntityValue: h.get(rec, "targetEntityValue"),
		})
		return nil
	})
	return records, err
}
