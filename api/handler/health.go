package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/webscraper/models"
	"github.com/use-agent/webscraper/scraper"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Health returns a handler for GET /api/health.
//
// Status is always "healthy": the endpoint reports liveness plus activity
// counters, not upstream reachability.
func Health(sc *scraper.Scraper, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := sc.Stats()
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "healthy",
			Message:       "WebScraper API is running",
			Uptime:        time.Since(startTime).Round(time.Second).String(),
			Version:       Version,
			ActiveScrapes: stats.ActiveScrapes,
			TotalScrapes:  stats.TotalScrapes,
		})
	}
}

// NotFound answers unknown routes with a JSON error.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: &models.ErrorDetail{
			Code:    models.ErrCodeNotFound,
			Message: "Endpoint not found",
		}})
	}
}
