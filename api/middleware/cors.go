package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/use-agent/webscraper/config"
)

// CORS lets browser frontends on the configured origins call the API.
// An empty origin list, or one containing "*", allows every origin.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Scrape-Outcome", "X-Scrape-Pages-Attempted", "X-Scrape-Pages-Succeeded", "X-Scrape-Pages-Failed", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}

	c.AllowAllOrigins = len(cfg.AllowedOrigins) == 0
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			break
		}
	}
	if !c.AllowAllOrigins {
		c.AllowOrigins = cfg.AllowedOrigins
	}

	return cors.New(c)
}
