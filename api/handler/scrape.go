package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/webscraper/cache"
	"github.com/use-agent/webscraper/config"
	"github.com/use-agent/webscraper/extract"
	"github.com/use-agent/webscraper/models"
	"github.com/use-agent/webscraper/scraper"
)

// Response headers describing how a synchronous scrape ended. The body
// stays a bare record list so older clients keep working.
const (
	HeaderOutcome        = "X-Scrape-Outcome"
	HeaderPagesAttempted = "X-Scrape-Pages-Attempted"
	HeaderPagesSucceeded = "X-Scrape-Pages-Succeeded"
	HeaderPagesFailed    = "X-Scrape-Pages-Failed"
	HeaderCache          = "X-Cache"
)

// Scrape returns a handler for POST /api/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (only when maxAge > 0).
//  3. Scraper.Scrape walks the pages.
//  4. Outcome headers, JSON record list.
func Scrape(sc *scraper.Scraper, cc *cache.Cache, limits config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse request ────────────────────────────────────────
		req, scrapeErr := bindScrapeRequest(c, limits)
		if scrapeErr != nil {
			respondError(c, scrapeErr)
			return
		}
		slog.Info("scrape request received",
			"url", req.URL,
			"maxPages", req.MaxPages,
			"delay", req.DelayMs(),
		)

		// ── 2. Cache lookup ─────────────────────────────────────────
		var cacheKey string
		if cc != nil && req.MaxAge > 0 {
			cacheKey = cache.Key(req)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.Header(HeaderCache, "hit")
				writeResult(c, cached)
				return
			}
		}

		// ── 3. Scrape ───────────────────────────────────────────────
		res, err := sc.Scrape(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		// ── 4. Cache store + respond ────────────────────────────────
		if cacheKey != "" {
			cc.Set(cacheKey, res)
			c.Header(HeaderCache, "miss")
		}
		writeResult(c, res)
	}
}

func writeResult(c *gin.Context, res *scraper.Result) {
	c.Header(HeaderOutcome, string(res.Outcome))
	c.Header(HeaderPagesAttempted, strconv.Itoa(res.PagesAttempted))
	c.Header(HeaderPagesSucceeded, strconv.Itoa(res.PagesSucceeded))
	c.Header(HeaderPagesFailed, strconv.Itoa(res.PagesFailed))
	c.JSON(http.StatusOK, res.Records)
}

// bindScrapeRequest decodes and validates a scrape request body.
func bindScrapeRequest(c *gin.Context, limits config.ScraperConfig) (*models.ScrapeRequest, *models.ScrapeError) {
	var req models.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "Invalid input: "+err.Error(), err)
	}
	req.Defaults()
	if err := validateScrapeRequest(&req, limits); err != nil {
		return nil, err
	}
	return &req, nil
}

// validateScrapeRequest checks what binding tags cannot express.
func validateScrapeRequest(req *models.ScrapeRequest, limits config.ScraperConfig) *models.ScrapeError {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "URL is required", nil)
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "URL must be an absolute http or https address", err)
	}

	if !req.Selectors.Any() {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "At least one CSS selector is required", nil)
	}
	if _, err := extract.CompileSelectors(req.Selectors.Title, req.Selectors.Price, req.Selectors.Description); err != nil {
		return models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err)
	}

	if limits.MaxPagesLimit > 0 && req.MaxPages > limits.MaxPagesLimit {
		return models.NewScrapeError(models.ErrCodeInvalidInput,
			"maxPages must not exceed "+strconv.Itoa(limits.MaxPagesLimit), nil)
	}
	return nil
}

// respondError maps an error to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		code := models.ErrCodeInternal
		if errors.Is(err, context.DeadlineExceeded) {
			code = models.ErrCodeTimeout
		}
		scrapeErr = models.NewScrapeError(code, "Scraping failed: "+err.Error(), err)
	}
	if scrapeErr.Code == models.ErrCodeInternal {
		slog.Error("scrape failed", "error", err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.ErrorResponse{Error: scrapeErr.ToDetail()})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
