package models

// Record is one extracted listing entry. The JSON field names are part of
// the public API and must not change.
type Record struct {
	Title       string `json:"product-title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Outcome describes why a scrape batch ended.
type Outcome string

const (
	// OutcomeCompleted means every page in range was visited.
	OutcomeCompleted Outcome = "completed"

	// OutcomeEndOfData means a page produced no records and the loop stopped early.
	OutcomeEndOfData Outcome = "end_of_data"

	// OutcomeAllFailed means no page was fetched and parsed successfully.
	OutcomeAllFailed Outcome = "all_failed"
)

// JobResponse is the immediate response for POST /api/scrape/jobs.
type JobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// JobStatusResponse is the response for GET /api/scrape/jobs/:id.
type JobStatusResponse struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"` // "processing", "completed", "failed"
	Outcome        Outcome      `json:"outcome,omitempty"`
	PagesAttempted int          `json:"pages_attempted"`
	PagesSucceeded int          `json:"pages_succeeded"`
	PagesFailed    int          `json:"pages_failed"`
	Records        []Record     `json:"records"`
	Error          *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	ActiveScrapes int   `json:"active_scrapes"`
	TotalScrapes  int64 `json:"total_scrapes"`
}
