// Package api exposes the extraction engine over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SanyamSharma26/universal-website-scraper/api/handler"
	"github.com/SanyamSharma26/universal-website-scraper/api/middleware"
	"github.com/SanyamSharma26/universal-website-scraper/cache"
	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/scrape"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Scrape:  Auth (if enabled) → RateLimit
//
// The health endpoint stays outside auth so liveness probes always work.
func NewRouter(o *scrape.Orchestrator, cfg *config.Config, cc *cache.Cache) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/healthz", handler.Health())

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(o, cc))

	return r
}
