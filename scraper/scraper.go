package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/webscraper/config"
	"github.com/use-agent/webscraper/extract"
	"github.com/use-agent/webscraper/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Scraper walks a paginated listing and extracts records page by page.
// A Scraper may be shared; every Scrape call owns its own HTTP session.
type Scraper struct {
	cfg    config.ScraperConfig
	logger *slog.Logger

	activeScrapes atomic.Int32
	totalScrapes  atomic.Int64

	// sleep waits between pages. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Stats is a snapshot of scraper activity.
type Stats struct {
	ActiveScrapes int   `json:"active_scrapes"`
	TotalScrapes  int64 `json:"total_scrapes"`
}

// New creates a Scraper. A nil logger uses slog.Default().
func New(cfg config.ScraperConfig, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		cfg:    cfg,
		logger: logger.With("component", "scraper"),
		sleep:  sleepContext,
	}
}

// Stats returns a snapshot of the scraper's activity counters.
func (s *Scraper) Stats() Stats {
	return Stats{
		ActiveScrapes: int(s.activeScrapes.Load()),
		TotalScrapes:  s.totalScrapes.Load(),
	}
}

// Scrape visits pages 1..req.MaxPages of req.URL in order and returns the
// records found.
//
// A page that cannot be fetched (transport error, non-200 status) or parsed
// is logged and skipped. The first page that parses but yields no records
// ends the batch: it is taken to be the end of the listing. Between pages
// that produced records the loop pauses req.Delay milliseconds.
//
// The only errors returned are invalid selectors and context cancellation;
// in the latter case the records gathered so far are returned too.
func (s *Scraper) Scrape(ctx context.Context, req *models.ScrapeRequest) (*Result, error) {
	sel, err := extract.CompileSelectors(req.Selectors.Title, req.Selectors.Price, req.Selectors.Description)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err)
	}

	s.activeScrapes.Add(1)
	s.totalScrapes.Add(1)
	defer s.activeScrapes.Add(-1)

	maxPages := req.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	delay := time.Duration(req.DelayMs()) * time.Millisecond

	sess := newSession(s.cfg)
	defer sess.close()

	res := &Result{Records: []models.Record{}}
	log := s.logger.With("base_url", req.URL)

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("scraper: page %d: %w", page, err)
		}

		url := extract.PageURL(req.URL, page)
		log.Info("scraping page", "page", page, "url", url)
		res.PagesAttempted++

		fetched, err := sess.get(ctx, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, fmt.Errorf("scraper: page %d: %w", page, ctxErr)
			}
			var se *statusError
			if errors.As(err, &se) {
				log.Warn("non-200 status, skipping page", "page", page, "url", url, "status", se.code)
			} else {
				log.Warn("page fetch failed, skipping page", "page", page, "url", url, "error", err)
			}
			res.PagesFailed++
			continue
		}

		doc, err := parse(fetched)
		if err != nil {
			log.Error("page parse failed, skipping page", "page", page, "url", url, "error", err)
			res.PagesFailed++
			continue
		}
		res.PagesSucceeded++

		records := extract.Page(doc, sel)
		if len(records) == 0 {
			log.Warn("no records on page, stopping", "page", page, "url", url)
			res.Outcome = models.OutcomeEndOfData
			break
		}

		res.Records = append(res.Records, records...)
		log.Info("page scraped", "page", page, "records", len(records))

		if page < maxPages && delay > 0 {
			if err := s.sleep(ctx, delay); err != nil {
				return res, fmt.Errorf("scraper: delay after page %d: %w", page, err)
			}
		}
	}

	if res.Outcome == "" {
		res.Outcome = models.OutcomeCompleted
		if res.PagesSucceeded == 0 {
			res.Outcome = models.OutcomeAllFailed
		}
	}

	log.Info("scrape finished",
		"outcome", res.Outcome,
		"records", len(res.Records),
		"pages_attempted", res.PagesAttempted,
		"pages_failed", res.PagesFailed,
	)
	return res, nil
}

// parse decodes the body using the declared or sniffed charset and builds
// a document from it.
func parse(p *fetchedPage) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(p.body), p.contentType)
	if err != nil {
		return nil, fmt.Errorf("scraper: decode charset: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("scraper: parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
