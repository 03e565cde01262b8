package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rufuslabs/rufus/api/handler"
	"github.com/rufuslabs/rufus/api/middleware"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/rufus"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
// The health endpoint sits outside auth so monitoring probes always work.
func NewRouter(client *rufus.Client, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(client, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Scrape: crawl + instruction-driven extraction in one call.
	protected.POST("/scrape", handler.Scrape(client, cfg.Extractor))

	// Crawl: background traversal without extraction.
	jobs := handler.NewJobStore()
	protected.POST("/crawl", handler.PostCrawl(client, jobs))
	protected.GET("/crawl/:id", handler.GetCrawl(jobs))

	// Cache inspection and clearing.
	protected.GET("/cache", handler.GetCache(client))
	protected.DELETE("/cache", handler.ClearCache(client))

	return r
}
