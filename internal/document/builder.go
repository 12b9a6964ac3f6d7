package document

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"scheme-qa-go/internal/model"
)

// Chunking parameters, in runes.
const (
	ChunkSize    = 400
	ChunkOverlap = 50
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// BuildChunksFile reads the table at path and builds chunks for the region.
func BuildChunksFile(path, region string) ([]model.DocumentChunk, error) {
	records, err := ReadTableFile(path)
	if err != nil {
		return nil, err
	}
	return BuildChunks(records, region), nil
}

// BuildChunksFromReader reads the table from r and builds chunks for the region.
func BuildChunksFromReader(r io.Reader, region string) ([]model.DocumentChunk, error) {
	records, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	return BuildChunks(records, region), nil
}

// BuildChunks renders each kept record as a label:value text block and splits
// it into overlapping chunks tagged with row provenance. The sentinel region
// keeps every row; any other value keeps rows whose department contains it,
// case-insensitive. Row order is preserved.
func BuildChunks(records []model.SchemeRecord, region string) []model.DocumentChunk {
	var chunks []model.DocumentChunk
	for idx, rec := range records {
		if !MatchesRegion(rec.Department, region) {
			continue
		}
		title := cleanText(rec.Name)
		if title == "" {
			title = fmt.Sprintf("Row %d", idx)
		}
		block := FormatRecord(rec)
		for _, part := range splitText(block, ChunkSize, ChunkOverlap) {
			chunks = append(chunks, model.DocumentChunk{
				Text:      part,
				SourceRow: idx,
				Title:     title,
			})
		}
	}
	return chunks
}

// MatchesRegion reports whether a department passes the region filter.
func MatchesRegion(department, region string) bool {
	if region == "" || region == model.RegionAll {
		return true
	}
	return strings.Contains(strings.ToLower(department), strings.ToLower(region))
}

// FormatRecord renders a record as a deterministic multi-line block listing
// all four fields in label:value form. Empty fields render as empty values.
func FormatRecord(rec model.SchemeRecord) string {
	return fmt.Sprintf(
		"Scheme Name: %s\nMinistries/Departments: %s\nDescription & Benefits: %s\nTags: %s",
		cleanText(rec.Name),
		cleanText(rec.Department),
		cleanText(rec.Description),
		cleanText(JoinTags(rec.Tags)),
	)
}

// cleanText collapses whitespace runs to a single space and trims the ends.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// splitText cuts text into chunkSize-rune windows with chunkOverlap runes
// shared between consecutive chunks.
func splitText(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= chunkOverlap {
		chunkOverlap = 0
	}

	var chunks []string
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := chunkSize - chunkOverlap
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
