package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/webscraper/api/handler"
	"github.com/use-agent/webscraper/api/middleware"
	"github.com/use-agent/webscraper/cache"
	"github.com/use-agent/webscraper/config"
	"github.com/use-agent/webscraper/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	API:     RateLimit
//
// Health endpoint is outside the rate limiter so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, cc *cache.Cache, jobs *handler.JobStore, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.CORS(cfg.CORS))
	r.NoRoute(handler.NotFound())

	api := r.Group("/api")

	// Health is not rate limited.
	api.GET("/health", handler.Health(sc, startTime))

	limited := api.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))

	// Scrape
	limited.POST("/scrape", handler.Scrape(sc, cc, cfg.Scraper))

	// Async jobs
	limited.POST("/scrape/jobs", handler.PostJob(sc, jobs, cfg))
	limited.GET("/scrape/jobs/:id", handler.GetJob(jobs))

	return r
}
