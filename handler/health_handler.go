package handler

import (
	"context"
	"time"

	"habittracker/services"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var startTime = time.Now()

// HealthHandler reports process uptime, CPU load and dependency liveness.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	mongoStatus := "up"
	if err := utils.MongoClient.Ping(ctx, readpref.Primary()); err != nil {
		mongoStatus = "down"
	}

	redisStatus := "down"
	if services.TokenBlacklist != nil && services.TokenBlacklist.IsConnected() {
		redisStatus = "up"
	}

	status := "healthy"
	if mongoStatus == "down" {
		status = "degraded"
	}

	utils.Success(c, gin.H{
		"status":         status,
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
		"cpu_percent":    utils.GetCPUUsage(),
		"mongo":          mongoStatus,
		"redis":          redisStatus,
	})
}
