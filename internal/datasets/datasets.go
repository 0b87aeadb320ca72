// Package datasets parses tabular files (json, jsonl, csv, tsv) into
// row sets for model-driven analysis.
package datasets

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// maxLineBytes bounds a single jsonl line.
const maxLineBytes = 10 * 1024 * 1024

// DetectFormat maps a file extension to a dataset format.
// Returns domain.ErrUnsupportedFormat for anything unknown.
func DetectFormat(path string) (domain.DatasetFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return domain.DatasetFormatJSON, nil
	case ".jsonl":
		return domain.DatasetFormatJSONL, nil
	case ".csv":
		return domain.DatasetFormatCSV, nil
	case ".tsv":
		return domain.DatasetFormatTSV, nil
	default:
		return "", fmt.Errorf("%s: %w", path, domain.ErrUnsupportedFormat)
	}
}

// Load reads and parses a dataset file, detecting the format from the
// file extension.
func Load(path string) (*domain.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []domain.DatasetRow
	var columns []string

	switch format {
	case domain.DatasetFormatJSON:
		rows, columns, err = parseJSON(f)
	case domain.DatasetFormatJSONL:
		rows, columns, err = parseJSONL(f)
	case domain.DatasetFormatCSV:
		rows, columns, err = parseDelimited(f, ',')
	case domain.DatasetFormatTSV:
		rows, columns, err = parseDelimited(f, '\t')
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &domain.Dataset{
		Path:    path,
		Format:  format,
		Columns: columns,
		Rows:    rows,
	}, nil
}

// parseJSON reads a JSON array of objects. Column names are sorted
// because object key order does not survive decoding.
func parseJSON(f *os.File) ([]domain.DatasetRow, []string, error) {
	var rows []domain.DatasetRow
	dec := json.NewDecoder(f)
	if err := dec.Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("expected a JSON array of objects: %w", err)
	}
	return rows, collectColumns(rows), nil
}

// parseJSONL reads one JSON object per line, skipping blank lines.
func parseJSONL(f *os.File) ([]domain.DatasetRow, []string, error) {
	var rows []domain.DatasetRow

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row domain.DatasetRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading lines: %w", err)
	}

	return rows, collectColumns(rows), nil
}

// parseDelimited reads a header row plus data rows. All values stay
// strings.
func parseDelimited(f *os.File, comma rune) ([]domain.DatasetRow, []string, error) {
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	columns := records[0]
	rows := make([]domain.DatasetRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, nil, fmt.Errorf("row %d: %d fields, header has %d: %w",
				i+2, len(record), len(columns), domain.ErrInvalidInput)
		}
		row := make(domain.DatasetRow, len(columns))
		for j, col := range columns {
			row[col] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, columns, nil
}

// collectColumns returns the sorted union of the keys of all rows.
func collectColumns(rows []domain.DatasetRow) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			seen[k] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}
