package models

import "sync"

// JobRequest is the payload for POST /api/scrape/jobs.
type JobRequest struct {
	ScrapeRequest

	// WebhookURL, if set, receives a signed scrape.completed or
	// scrape.failed event when the job finishes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook body with HMAC-SHA256.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// ScrapeJob tracks an asynchronous scrape. Fields are guarded by mu because
// the runner goroutine writes them while pollers read.
type ScrapeJob struct {
	mu sync.RWMutex

	ID        string
	CreatedAt int64 // unix timestamp
	status    JobStatusResponse
}

// NewScrapeJob creates a job in the "processing" state.
func NewScrapeJob(id string, createdAt int64) *ScrapeJob {
	return &ScrapeJob{
		ID:        id,
		CreatedAt: createdAt,
		status: JobStatusResponse{
			ID:      id,
			Status:  "processing",
			Records: []Record{},
		},
	}
}

// Update applies fn to the job state under the write lock.
func (j *ScrapeJob) Update(fn func(s *JobStatusResponse)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.status)
}

// Snapshot returns a copy of the current job state.
func (j *ScrapeJob) Snapshot() JobStatusResponse {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := j.status
	s.Records = append([]Record(nil), j.status.Records...)
	if s.Records == nil {
		s.Records = []Record{}
	}
	return s
}
