package document

import (
	"strings"
	"testing"

	"scheme-qa-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.SchemeRecord {
	return []model.SchemeRecord{
		{
			Name:        "PM Kisan Samman Nidhi",
			Department:  "Ministry Of Agriculture and Farmers Welfare",
			Description: "Income support for farmers",
			Tags:        []string{"Agriculture", "Farmer"},
		},
		{
			Name:        "Kerala Housing Scheme",
			Department:  "Government of Kerala",
			Description: "Housing assistance for low income families",
			Tags:        []string{"Housing"},
		},
		{
			Name:        "Skill India Mission",
			Department:  "Ministry of Skill Development",
			Description: "Vocational training",
			Tags:        nil,
		},
	}
}

func TestBuildChunksAllIndiaKeepsEveryRow(t *testing.T) {
	chunks := BuildChunks(sampleRecords(), model.RegionAll)

	rows := map[int]bool{}
	for _, c := range chunks {
		rows[c.SourceRow] = true
	}
	assert.Len(t, rows, 3)
}

func TestBuildChunksRegionFilter(t *testing.T) {
	chunks := BuildChunks(sampleRecords(), "Kerala")

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, 1, c.SourceRow)
		assert.Equal(t, "Kerala Housing Scheme", c.Title)
	}
}

func TestBuildChunksRegionFilterIsCaseInsensitive(t *testing.T) {
	upper := BuildChunks(sampleRecords(), "KERALA")
	lower := BuildChunks(sampleRecords(), "kerala")
	assert.Equal(t, upper, lower)
	assert.NotEmpty(t, upper)
}

func TestFormatRecordContainsAllFourFields(t *testing.T) {
	block := FormatRecord(sampleRecords()[0])

	assert.Contains(t, block, "Scheme Name: PM Kisan Samman Nidhi")
	assert.Contains(t, block, "Ministries/Departments: Ministry Of Agriculture and Farmers Welfare")
	assert.Contains(t, block, "Description & Benefits: Income support for farmers")
	assert.Contains(t, block, "Tags: Agriculture, Farmer")
}

func TestFormatRecordEmptyFieldsKeepLabels(t *testing.T) {
	block := FormatRecord(model.SchemeRecord{})

	assert.Contains(t, block, "Scheme Name:")
	assert.Contains(t, block, "Tags:")
	assert.Len(t, strings.Split(block, "\n"), 4)
}

func TestFormatRecordCollapsesWhitespace(t *testing.T) {
	block := FormatRecord(model.SchemeRecord{
		Name:        "  A   Scheme\n\tWith   Gaps  ",
		Description: "line one\nline two",
	})

	assert.Contains(t, block, "Scheme Name: A Scheme With Gaps")
	assert.Contains(t, block, "Description & Benefits: line one line two")
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 90)
	parts := splitText(text, 40, 10)

	require.Len(t, parts, 3)
	assert.Equal(t, 40, len([]rune(parts[0])))
	assert.Equal(t, 40, len([]rune(parts[1])))
	assert.Equal(t, 30, len([]rune(parts[2])))
}

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	parts := splitText("short text", ChunkSize, ChunkOverlap)
	require.Len(t, parts, 1)
	assert.Equal(t, "short text", parts[0])
}

func TestSplitTextEmpty(t *testing.T) {
	assert.Nil(t, splitText("", ChunkSize, ChunkOverlap))
}

func TestBuildChunksEveryChunkIsSubstringOfItsBlock(t *testing.T) {
	records := sampleRecords()
	// make one record long enough to need several chunks
	records[0].Description = strings.Repeat("Income support for farmers. ", 40)

	chunks := BuildChunks(records, model.RegionAll)
	require.NotEmpty(t, chunks)

	blocks := map[int]string{}
	for i, rec := range records {
		blocks[i] = FormatRecord(rec)
	}
	multi := 0
	for _, c := range chunks {
		assert.Contains(t, blocks[c.SourceRow], c.Text)
		if c.SourceRow == 0 {
			multi++
		}
	}
	assert.Greater(t, multi, 1, "long record should split into several chunks")
}

func TestMatchesRegion(t *testing.T) {
	tests := []struct {
		department string
		region     string
		want       bool
	}{
		{"Government of Kerala", model.RegionAll, true},
		{"Government of Kerala", "", true},
		{"Government of Kerala", "Kerala", true},
		{"Government of Kerala", "Assam", false},
		{"", "Kerala", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesRegion(tt.department, tt.region), "department=%q region=%q", tt.department, tt.region)
	}
}

func TestTableRoundTrip(t *testing.T) {
	path := t.TempDir() + "/schemes.csv"
	records := sampleRecords()

	require.NoError(t, WriteTable(path, records))
	got, err := ReadTableFile(path)
	require.NoError(t, err)

	assert.Equal(t, records, got)
}

func TestReadTableRejectsWrongHeader(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b,c,d\n1,2,3,4\n"))
	assert.Error(t, err)
}
