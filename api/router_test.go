package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/webscraper/api/handler"
	"github.com/use-agent/webscraper/cache"
	"github.com/use-agent/webscraper/config"
	"github.com/use-agent/webscraper/scraper"
)

func testRouter(rl config.RateLimitConfig) http.Handler {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Scraper:   config.ScraperConfig{RequestTimeout: time.Second, MaxPagesLimit: 5, MaxBodyBytes: 1 << 20},
		RateLimit: rl,
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		Jobs:      config.JobsConfig{TTL: time.Hour, Timeout: time.Minute},
	}
	sc := scraper.New(cfg.Scraper, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewRouter(sc, cache.New(10), handler.NewJobStore(cfg.Jobs.TTL), cfg, time.Now())
}

func TestRouter_NotFound(t *testing.T) {
	r := testRouter(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Endpoint not found") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestRouter_CORS(t *testing.T) {
	r := testRouter(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_RateLimitSkipsHealth(t *testing.T) {
	r := testRouter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})

	post := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{}`)))
		return w.Code
	}
	if code := post(); code != http.StatusBadRequest {
		t.Fatalf("first request status = %d, want 400", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("health status = %d, want 200", w.Code)
		}
	}
}
