// Package document turns the scraped scheme table into retrievable chunks.
package document

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"scheme-qa-go/internal/model"
)

// ReadTable parses the scheme table from r. The fixed four-column header is
// required; the tags cell is split back into its comma-joined labels.
func ReadTable(r io.Reader) ([]model.SchemeRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(model.TableHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read table header: %w", err)
	}
	for i, col := range model.TableHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected table header: got %q, want %q", header[i], col)
		}
	}

	var records []model.SchemeRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table row: %w", err)
		}
		records = append(records, model.SchemeRecord{
			Name:        row[0],
			Department:  row[1],
			Description: row[2],
			Tags:        splitTags(row[3]),
		})
	}
	return records, nil
}

// ReadTableFile parses the scheme table from a file path.
func ReadTableFile(path string) ([]model.SchemeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// WriteTable writes records to path in one go, header first. The file is
// fully rewritten on each run.
func WriteTable(path string, records []model.SchemeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.TableHeader); err != nil {
		return fmt.Errorf("failed to write table header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Name, rec.Department, rec.Description, JoinTags(rec.Tags)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write table row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// JoinTags renders tag labels as a single comma-joined cell.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func splitTags(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
