package scraper

import (
	"context"
	"fmt"
	"time"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/internal/model"
	"scheme-qa-go/pkg/log"

	"github.com/chromedp/chromedp"
)

// paginationClickJS locates the pagination control, finds the entry marked as
// currently selected and clicks its next sibling. It returns false when there
// is no next page to move to.
const paginationClickJS = `(() => {
	const ul = document.querySelector('ul.flex.flex-wrap.items-center.justify-center');
	if (!ul) return false;
	const lis = Array.from(ul.querySelectorAll('li'));
	const idx = lis.findIndex(li => li.className.includes('!text-white') && li.className.includes('bg-green-700'));
	if (idx < 0 || idx + 1 >= lis.length) return false;
	lis[idx + 1].scrollIntoView({block: 'center'});
	lis[idx + 1].click();
	return true;
})()`

// Scraper drives a browser session against the paginated listing page.
type Scraper struct {
	cfg config.ScraperConfig
}

// New creates a Scraper from the crawl settings.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// Run crawls up to MaxPages pages and returns the accumulated records. A
// pagination failure ends the crawl early with whatever has been collected;
// it is a best-effort batch job, not a resilient crawler.
func (s *Scraper) Run(ctx context.Context) ([]model.SchemeRecord, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	log.Infof("[Scraper] opening %s", s.cfg.StartURL)
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.cfg.StartURL),
		chromedp.Sleep(5*time.Second),
	); err != nil {
		return nil, fmt.Errorf("failed to open listing page: %w", err)
	}

	var records []model.SchemeRecord
	for page := 1; page <= s.cfg.MaxPages; page++ {
		log.Infof("[Scraper] scraping page %d", page)

		if err := s.scrollToBottom(browserCtx); err != nil {
			log.Errorf("[Scraper] scrolling failed on page %d: %v", page, err)
			break
		}

		var html string
		if err := chromedp.Run(browserCtx,
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		); err != nil {
			log.Errorf("[Scraper] failed to capture page %d: %v", page, err)
			break
		}

		cards, err := ParseCards(html)
		if err != nil {
			log.Errorf("[Scraper] failed to parse page %d: %v", page, err)
			break
		}
		records = append(records, cards...)
		log.Infof("[Scraper] page %d yielded %d schemes (total %d)", page, len(cards), len(records))

		turn, reason := shouldTurnPage(page, s.cfg.MaxPages, len(cards))
		if !turn {
			log.Infof("[Scraper] ending crawl on page %d: %s", page, reason)
			break
		}

		moved, err := s.clickNextPage(browserCtx)
		if err != nil {
			log.Errorf("[Scraper] pagination failed after page %d: %v", page, err)
			break
		}
		if !moved {
			log.Infof("[Scraper] no next page control found, ending")
			break
		}

		if err := s.waitForCards(browserCtx); err != nil {
			log.Errorf("[Scraper] page %d never rendered: %v", page+1, err)
			break
		}
	}

	log.Infof("[Scraper] crawl finished with %d records", len(records))
	return records, nil
}

// shouldTurnPage applies the crawl stop rules after a page has been parsed:
// a page with no cards ends the crawl, as does reaching the page ceiling.
// The remaining stop condition, a missing next-page control, is only known
// once the pagination click runs.
func shouldTurnPage(page, maxPages, cardCount int) (bool, string) {
	if cardCount == 0 {
		return false, "no schemes found on page"
	}
	if page >= maxPages {
		return false, "page ceiling reached"
	}
	return true, ""
}

// scrollToBottom forces lazy-loaded cards to render by repeatedly scrolling
// to the page bottom with a fixed delay.
func (s *Scraper) scrollToBottom(ctx context.Context) error {
	delay := time.Duration(s.cfg.ScrollDelayMs) * time.Millisecond
	for i := 0; i < s.cfg.ScrollPasses; i++ {
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(delay),
		); err != nil {
			return err
		}
	}
	return chromedp.Run(ctx, chromedp.Sleep(time.Second))
}

// clickNextPage simulates a click on the pagination entry after the selected
// one. Returns false when no next control exists.
func (s *Scraper) clickNextPage(ctx context.Context) (bool, error) {
	var moved bool
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(paginationClickJS, &moved),
	); err != nil {
		return false, err
	}
	return moved, nil
}

// waitForCards blocks until the next page's cards appear, bounded by the
// configured timeout, then allows the page a moment to settle.
func (s *Scraper) waitForCards(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.PageTimeoutSecs)*time.Second)
	defer cancel()
	if err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(CardSelector, chromedp.ByQuery),
	); err != nil {
		return err
	}
	return chromedp.Run(ctx, chromedp.Sleep(3*time.Second))
}
