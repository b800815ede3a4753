package models

import "strings"

// DefaultDelayMs is the pause between consecutive page fetches when the
// client does not send one.
const DefaultDelayMs = 1000

// ScrapeRequest is the payload for POST /api/scrape and POST /api/scrape/jobs.
type ScrapeRequest struct {
	// URL is the first page of the listing. Required.
	URL string `json:"url"`

	// Delay is the pause in milliseconds between page fetches.
	// Default: 1000.
	Delay *int `json:"delay,omitempty" binding:"omitempty,min=0"`

	// MaxPages bounds how many pages are visited. Default: 1.
	MaxPages int `json:"maxPages,omitempty" binding:"omitempty,min=1"`

	// Selectors holds the CSS selector expressions for each record field.
	Selectors Selectors `json:"selectors"`

	// Output is accepted for compatibility with older clients. Records are
	// always returned as a flat JSON list.
	Output string `json:"output,omitempty"`

	// MaxAge, when > 0, allows a cached result younger than MaxAge
	// milliseconds to be returned instead of scraping again.
	MaxAge int `json:"maxAge,omitempty" binding:"omitempty,min=0"`
}

// Selectors are the per-field selector expressions. Each may list several
// alternatives separated by commas.
type Selectors struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Any reports whether at least one selector is non-blank.
func (s Selectors) Any() bool {
	return strings.TrimSpace(s.Title) != "" ||
		strings.TrimSpace(s.Price) != "" ||
		strings.TrimSpace(s.Description) != ""
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Delay == nil {
		d := DefaultDelayMs
		r.Delay = &d
	}
	if r.MaxPages == 0 {
		r.MaxPages = 1
	}
	if r.Output == "" {
		r.Output = "json"
	}
}

// DelayMs returns the effective delay, tolerating a request that never
// went through Defaults.
func (r *ScrapeRequest) DelayMs() int {
	if r.Delay == nil {
		return DefaultDelayMs
	}
	return *r.Delay
}
