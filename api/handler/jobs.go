package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/webscraper/config"
	"github.com/use-agent/webscraper/models"
	"github.com/use-agent/webscraper/scraper"
	"github.com/use-agent/webscraper/webhook"
)

// JobStore holds all in-flight and finished scrape jobs. Jobs older than
// the TTL are dropped by a background sweep.
type JobStore struct {
	jobs sync.Map // id (string) -> *models.ScrapeJob
	ttl  time.Duration
	wg   sync.WaitGroup
}

// NewJobStore creates a JobStore and starts its expiry sweep.
func NewJobStore(ttl time.Duration) *JobStore {
	s := &JobStore{ttl: ttl}
	go s.cleanupLoop()
	return s
}

func (s *JobStore) get(id string) (*models.ScrapeJob, bool) {
	v, ok := s.jobs.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*models.ScrapeJob), true
}

// Wait blocks until every running job has finished.
func (s *JobStore) Wait() {
	s.wg.Wait()
}

func (s *JobStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.expire(time.Now().Add(-s.ttl).Unix())
	}
}

func (s *JobStore) expire(cutoff int64) {
	s.jobs.Range(func(key, value any) bool {
		if value.(*models.ScrapeJob).CreatedAt < cutoff {
			s.jobs.Delete(key)
		}
		return true
	})
}

// PostJob returns a handler for POST /api/scrape/jobs.
// It validates the request, registers a job and runs the scrape in the
// background.
func PostJob(sc *scraper.Scraper, store *JobStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.JobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, "Invalid input: "+err.Error(), err))
			return
		}
		req.Defaults()
		if scrapeErr := validateScrapeRequest(&req.ScrapeRequest, cfg.Scraper); scrapeErr != nil {
			respondError(c, scrapeErr)
			return
		}

		job := models.NewScrapeJob("scrape-"+randomID(), time.Now().Unix())
		store.jobs.Store(job.ID, job)

		store.wg.Add(1)
		go func() {
			defer store.wg.Done()
			runJob(sc, job, req, cfg.Jobs.Timeout)
		}()

		c.JSON(http.StatusAccepted, models.JobResponse{
			ID:     job.ID,
			Status: "processing",
		})
	}
}

// GetJob returns a handler for GET /api/scrape/jobs/:id.
func GetJob(store *JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := store.get(c.Param("id"))
		if !ok {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, "scrape job not found", nil))
			return
		}
		c.JSON(http.StatusOK, job.Snapshot())
	}
}

// runJob executes one job and records its result. The job runs detached
// from the HTTP request that created it.
func runJob(sc *scraper.Scraper, job *models.ScrapeJob, req models.JobRequest, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := sc.Scrape(ctx, &req.ScrapeRequest)

	job.Update(func(s *models.JobStatusResponse) {
		if res != nil {
			s.Records = res.Records
			s.Outcome = res.Outcome
			s.PagesAttempted = res.PagesAttempted
			s.PagesSucceeded = res.PagesSucceeded
			s.PagesFailed = res.PagesFailed
		}
		if err != nil {
			s.Status = "failed"
			code := models.ErrCodeInternal
			if errors.Is(err, context.DeadlineExceeded) {
				code = models.ErrCodeTimeout
			}
			s.Error = &models.ErrorDetail{Code: code, Message: err.Error()}
			return
		}
		s.Status = "completed"
	})

	final := job.Snapshot()
	slog.Info("scrape job finished",
		"id", job.ID,
		"status", final.Status,
		"outcome", final.Outcome,
		"records", len(final.Records),
	)

	if req.WebhookURL == "" {
		return
	}
	eventType := webhook.EventScrapeCompleted
	if final.Status == "failed" {
		eventType = webhook.EventScrapeFailed
	}
	webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
		Type:      eventType,
		JobID:     job.ID,
		Timestamp: time.Now().Unix(),
		Data:      final,
	}, nil)
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
