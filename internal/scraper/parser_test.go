package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `
<html><body>
<div class="p-4 lg:p-8 w-full">
  <a class="block" href="/schemes/pmk"><span>PM Kisan Samman Nidhi</span></a>
  <h2 class="mt-3">Ministry Of Agriculture and Farmers Welfare</h2>
  <span class="line-clamp-2"><span>Income support of Rs 6000 per year for farmer families</span></span>
  <div title="Agriculture">Agricu...</div>
  <div title="Farmer">Farmer</div>
</div>
<div class="p-4 lg:p-8 w-full">
  <a class="block" href="/schemes/anon"><span>Anonymous Benefit Scheme</span></a>
  <span class="line-clamp-2"><span>  </span></span>
</div>
</body></html>`

func TestParseCards(t *testing.T) {
	records, err := ParseCards(listingFixture)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "PM Kisan Samman Nidhi", first.Name)
	assert.Equal(t, "Ministry Of Agriculture and Farmers Welfare", first.Department)
	assert.Equal(t, "Income support of Rs 6000 per year for farmer families", first.Description)
	assert.Equal(t, []string{"Agriculture", "Farmer"}, first.Tags)
}

func TestParseCardsMissingFieldsUsePlaceholder(t *testing.T) {
	records, err := ParseCards(listingFixture)
	require.NoError(t, err)
	require.Len(t, records, 2)

	second := records[1]
	assert.Equal(t, "Anonymous Benefit Scheme", second.Name)
	assert.Equal(t, Placeholder, second.Department)
	assert.Equal(t, Placeholder, second.Description)
	assert.Empty(t, second.Tags)
}

func TestParseCardsSkipsEmptyCards(t *testing.T) {
	html := `<html><body>
		<div class="p-4 lg:p-8 w-full"></div>
		<div class="p-4 lg:p-8 w-full">
			<a class="block"><span>Real Scheme</span></a>
		</div>
	</body></html>`

	records, err := ParseCards(html)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Real Scheme", records[0].Name)
}

func TestParseCardsNoCards(t *testing.T) {
	records, err := ParseCards("<html><body><p>maintenance page</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, records)
}
