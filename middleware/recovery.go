package middleware

import (
	"log"

	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				utils.TrackError("panic", "recovered")
				utils.InternalError(c, "Internal Server Error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
