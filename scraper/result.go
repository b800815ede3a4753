package scraper

import "github.com/use-agent/webscraper/models"

// Result is everything one scrape batch produced.
type Result struct {
	// Records holds every page's records, in page order then anchor order.
	Records []models.Record

	// Outcome tells why the batch ended. OutcomeAllFailed separates "every
	// page failed to load" from "pages loaded but nothing matched".
	Outcome models.Outcome

	// PagesAttempted counts fetches issued; PagesSucceeded those fetched and
	// parsed; PagesFailed those skipped because of a fetch or parse error.
	PagesAttempted int
	PagesSucceeded int
	PagesFailed    int
}
