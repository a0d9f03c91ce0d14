package models

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required, must include a scheme.
	URL string `json:"url" binding:"required,url"`
}
