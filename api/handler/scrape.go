package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SanyamSharma26/universal-website-scraper/cache"
	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/scrape"
)

// Scrape returns the handler for POST /scrape.
//
// The engine itself never fails for a reachable URL — it degrades to a
// partial document with recorded errors — so the only client error here is
// malformed input.
func Scrape(o *scrape.Orchestrator, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		key := cache.Key(req.URL)
		if doc, hit := cc.Get(key); hit {
			c.JSON(http.StatusOK, doc)
			return
		}

		doc := o.Scrape(c.Request.Context(), req.URL)

		// Only clean results are worth caching; failed scrapes should be
		// retryable immediately.
		if len(doc.Errors) == 0 {
			cc.Set(key, doc)
		}

		c.JSON(http.StatusOK, doc)
	}
}
