package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rufuslabs/rufus/rufus"
)

// GetCache returns a handler for GET /api/v1/cache.
func GetCache(client *rufus.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, client.CacheInfo())
	}
}

// ClearCache returns a handler for DELETE /api/v1/cache.
func ClearCache(client *rufus.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		client.ClearCache()
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}
