package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL      = flag.String("api-url", "http://localhost:5000", "WebScraper API base URL")
	targetURL   = flag.String("url", "https://webscraper.io/test-sites/e-commerce/static", "Listing page to scrape")
	title       = flag.String("title", ".title", "Title selector")
	price       = flag.String("price", ".price", "Price selector")
	description = flag.String("description", ".description", "Description selector")
	maxPages    = flag.Int("max-pages", 1, "Pages to visit")
	delay       = flag.Int("delay", 1000, "Delay between pages in milliseconds")
	show        = flag.Int("show", 3, "Number of records to print")
)

// --- Request / Response types (mirrors models package) ---

type scrapeRequest struct {
	URL       string    `json:"url"`
	Delay     int       `json:"delay"`
	MaxPages  int       `json:"maxPages"`
	Selectors selectors `json:"selectors"`
}

type selectors struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type record struct {
	Title       string `json:"product-title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	flag.Parse()

	fmt.Println("=== WebScraper Smoke Test ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Target:    %s\n", *targetURL)
	fmt.Printf("Pages:     %d\n", *maxPages)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (e.g. go run ./cmd/webscraper)\n")
		os.Exit(1)
	}

	start := time.Now()
	resp, err := scrape()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Status:    %d\n", resp.StatusCode)
	fmt.Printf("Elapsed:   %s\n", elapsed.Round(time.Millisecond))
	if outcome := resp.Header.Get("X-Scrape-Outcome"); outcome != "" {
		fmt.Printf("Outcome:   %s (pages ok %s, failed %s)\n", outcome,
			resp.Header.Get("X-Scrape-Pages-Succeeded"), resp.Header.Get("X-Scrape-Pages-Failed"))
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if err := json.Unmarshal(body, &e); err == nil && e.Error != nil {
			fmt.Fprintf(os.Stderr, "Error: [%s] %s\n", e.Error.Code, e.Error.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", strings.TrimSpace(string(body)))
		}
		os.Exit(1)
	}

	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding records: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Records:   %d\n\n", len(records))

	printTable(records, *show)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func scrape() (*http.Response, error) {
	reqBody := scrapeRequest{
		URL:      *targetURL,
		Delay:    *delay,
		MaxPages: *maxPages,
		Selectors: selectors{
			Title:       *title,
			Price:       *price,
			Description: *description,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/scrape", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func printTable(records []record, n int) {
	if n > len(records) {
		n = len(records)
	}
	if n == 0 {
		return
	}

	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tTitle\tPrice\tDescription\n")
	fmt.Fprintf(w, "─\t─────\t─────\t───────────\n")
	for i, r := range records[:n] {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, truncate(r.Title, 30), r.Price, truncate(r.Description, 40))
	}
	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
