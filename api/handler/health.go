package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns the liveness handler for GET /healthz.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
