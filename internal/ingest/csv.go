// Package ingest loads video metadata rows from CSV and JSON input files.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/masato/tag-generator/internal/types"
)

// headerAliases maps recognized column headers, Japanese and English, to
// row fields. Matching is case-insensitive after trimming.
var headerAliases = map[string]string{
	"タイトル":   "title",
	"title":  "title",
	"スキル":    "skill",
	"skill":  "skill",
	"説明文":    "description",
	"説明":     "description",
	"description": "description",
	"要約":     "summary",
	"summary": "summary",
	"文字起こし":  "transcript",
	"transcript": "transcript",
}

// ReadFile loads rows from a CSV or JSON file, chosen by extension.
func ReadFile(path string) ([]types.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	default:
		return ReadCSV(f)
	}
}

// ReadCSV parses header-mapped CSV into rows. Unknown columns are
// ignored; recognized columns may appear in any order. Rows where every
// recognized field is empty are dropped.
func ReadCSV(r io.Reader) ([]types.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	fields := make(map[int]string, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(stripBOM(col)))
		if field, ok := headerAliases[name]; ok {
			fields[i] = field
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognized columns in CSV header: %v", header)
	}

	var rows []types.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		var row types.Row
		for i, value := range record {
			field, ok := fields[i]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch field {
			case "title":
				row.Title = value
			case "skill":
				row.Skill = value
			case "description":
				row.Description = value
			case "summary":
				row.Summary = value
			case "transcript":
				row.Transcript = value
			}
		}
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ReadJSON parses a JSON array of row objects.
func ReadJSON(r io.Reader) ([]types.Row, error) {
	var rows []types.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to parse JSON rows: %w", err)
	}

	kept := rows[:0]
	for _, row := range rows {
		if !row.IsEmpty() {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
