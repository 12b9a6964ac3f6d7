// Package scraper crawls the paginated scheme listing into the scheme table.
package scraper

import (
	"fmt"
	"strings"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/pkg/log"

	"github.com/PuerkitoBio/goquery"
)

// Placeholder stands in for any card field the page does not render.
const Placeholder = "-"

// Structural selectors of the listing page.
const (
	CardSelector        = `div.p-4.lg\:p-8.w-full`
	nameSelector        = "a.block span"
	departmentSelector  = "h2.mt-3"
	descriptionSelector = "span.line-clamp-2 span"
	tagSelector         = "div[title]"
)

// ParseCards extracts one SchemeRecord per scheme card from rendered page
// HTML. A card that yields no usable field at all is logged and skipped;
// individually missing fields fall back to the placeholder.
func ParseCards(html string) ([]model.SchemeRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}

	var records []model.SchemeRecord
	doc.Find(CardSelector).Each(func(i int, card *goquery.Selection) {
		rec := model.SchemeRecord{
			Name:        textOrPlaceholder(card, nameSelector),
			Department:  textOrPlaceholder(card, departmentSelector),
			Description: textOrPlaceholder(card, descriptionSelector),
			Tags:        tagTitles(card),
		}
		if rec.Name == Placeholder && rec.Department == Placeholder &&
			rec.Description == Placeholder && len(rec.Tags) == 0 {
			log.Warnf("[Scraper] card %d yielded no fields, skipping", i)
			return
		}
		records = append(records, rec)
	})
	return records, nil
}

// textOrPlaceholder returns the trimmed text of the first selector match, or
// the placeholder when the element is absent or empty.
func textOrPlaceholder(s *goquery.Selection, selector string) string {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return Placeholder
	}
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return Placeholder
	}
	return text
}

// tagTitles collects the title attributes of the card's tag elements in
// document order.
func tagTitles(card *goquery.Selection) []string {
	var tags []string
	card.Find(tagSelector).Each(func(_ int, tag *goquery.Selection) {
		if title, ok := tag.Attr("title"); ok && strings.TrimSpace(title) != "" {
			tags = append(tags, strings.TrimSpace(title))
		}
	})
	return tags
}
