package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the webscraper API request model.
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

// record mirrors models.Record.
type record struct {
	Title       string `json:"product-title"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// errorResponse mirrors models.ErrorResponse.
type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// jobResponse mirrors the job creation response.
type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// jobStatusResponse mirrors the job status response.
type jobStatusResponse struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	Outcome        string   `json:"outcome"`
	PagesAttempted int      `json:"pages_attempted"`
	PagesSucceeded int      `json:"pages_succeeded"`
	PagesFailed    int      `json:"pages_failed"`
	Records        []record `json:"records"`
	Error          *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("WEBSCRAPER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5000"
	}
	apiURL = strings.TrimRight(apiURL, "/")

	s := server.NewMCPServer(
		"webscraper",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_records",
		mcp.WithDescription("Extract title/price/description records from a paginated listing using CSS selectors. Pages are fetched one after another; the scrape stops at the first page without matches."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Address of the first listing page. Later pages add ?page=N (or &page=N)."),
		),
		mcp.WithString("title_selector",
			mcp.Description("CSS selector(s) for record titles, comma-separated alternatives allowed. Each title match becomes one record."),
		),
		mcp.WithString("price_selector",
			mcp.Description("CSS selector(s) for prices"),
		),
		mcp.WithString("description_selector",
			mcp.Description("CSS selector(s) for descriptions"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Number of pages to visit (default: 1)"),
		),
		mcp.WithNumber("delay_ms",
			mcp.Description("Pause between pages in milliseconds (default: 1000)"),
		),
		mcp.WithBoolean("async",
			mcp.Description("Run as a background job and poll until it finishes; reports how the scrape ended"),
		),
	)
	s.AddTool(scrapeTool, handleScrape(apiURL))

	healthTool := mcp.NewTool("health",
		mcp.WithDescription("Check that the webscraper API is reachable"),
	)
	s.AddTool(healthTool, handleHealth(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the webscraper API and returns the status
// code and response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, path string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, endpoint string) (*jobStatusResponse, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status jobStatusResponse
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return &status, nil
			}
		}
	}
}

func handleScrape(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := scrapeRequest{
			URL:      url,
			Delay:    request.GetInt("delay_ms", 1000),
			MaxPages: request.GetInt("max_pages", 1),
			Selectors: selectors{
				Title:       request.GetString("title_selector", ""),
				Price:       request.GetString("price_selector", ""),
				Description: request.GetString("description_selector", ""),
			},
		}

		if !request.GetBool("async", false) {
			code, body, err := apiPost(ctx, client, apiURL, "/api/scrape", payload)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if code != http.StatusOK {
				return mcp.NewToolResultError(apiError(code, body)), nil
			}
			var records []record
			if err := json.Unmarshal(body, &records); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
			}
			return mcp.NewToolResultText(formatRecords(records, "")), nil
		}

		code, body, err := apiPost(ctx, client, apiURL, "/api/scrape/jobs", payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if code != http.StatusAccepted {
			return mcp.NewToolResultError(apiError(code, body)), nil
		}
		var job jobResponse
		if err := json.Unmarshal(body, &job); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse job response: %v", err)), nil
		}

		status, err := pollJobCompletion(ctx, client, apiURL, "/api/scrape/jobs/"+job.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("job %s: %v", job.ID, err)), nil
		}
		if status.Status == "failed" && status.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", status.Error.Code, status.Error.Message)), nil
		}
		summary := fmt.Sprintf("Outcome: %s (pages attempted %d, succeeded %d, failed %d)",
			status.Outcome, status.PagesAttempted, status.PagesSucceeded, status.PagesFailed)
		return mcp.NewToolResultText(formatRecords(status.Records, summary)), nil
	}
}

func handleHealth(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/health", nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resp, err := client.Do(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API unreachable: %v", err)), nil
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return mcp.NewToolResultText(string(body)), nil
	}
}

// apiError renders an API error body as a single line.
func apiError(code int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != nil {
		return fmt.Sprintf("[%s] %s", e.Error.Code, e.Error.Message)
	}
	return fmt.Sprintf("API returned status %d", code)
}

func formatRecords(records []record, header string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Found %d records\n", len(records))
	for i, r := range records {
		fmt.Fprintf(&b, "\n%d. %s", i+1, r.Title)
		if r.Price != "" {
			fmt.Fprintf(&b, " | %s", r.Price)
		}
		if r.Description != "" {
			fmt.Fprintf(&b, "\n   %s", r.Description)
		}
	}
	return b.String()
}
