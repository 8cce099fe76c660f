package utils

import "github.com/gin-gonic/gin"

// GetBaseURL reconstructs the scheme://host prefix for building HAL links.
func GetBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/api"
}
