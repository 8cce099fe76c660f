package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"habittracker/handler"
	"habittracker/middleware"
	"habittracker/repository"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habittracker/services"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"USERS_COLLECTION",
		"SESSIONS_COLLECTION",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	if os.Getenv("GO_ENV") != "test" {
		utils.InitMongoClient()
	}

	// Redis is optional: without it logout-blacklisting and the session
	// cache degrade gracefully
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Printf("Token blacklist unavailable: %v", err)
		} else {
			services.TokenBlacklist = blacklist
		}

		cache, err := services.NewSessionCache(redisURL, utils.GetEnvAsDuration("SESSION_CACHE_TTL", time.Hour))
		if err != nil {
			log.Printf("Session cache unavailable: %v", err)
		} else {
			services.GlobalSessionCache = cache
		}
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	sessionRepo := repository.GetSessionRepo(utils.MongoClient)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		public.GET("/health", handler.HealthHandler)

		auth := public.Group("/auth")
		{
			auth.POST("/register", handler.RegistrationHandler)
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", handler.GetUserProfileHandler)
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo)
			})
			user.DELETE("", func(c *gin.Context) {
				handler.DeleteUserHandler(c, sessionRepo)
			})

			twofa := user.Group("/2fa")
			{
				twofa.POST("/secret", handler.GenerateTOTPSecretHandler)
				twofa.POST("/enable", handler.Enable2FAHandler)
				twofa.POST("/disable", handler.Disable2FAHandler)
			}
		}

		// Habit counters: only the ledger's owner may touch it
		habits := protected.Group("/users/:userId")
		habits.Use(middleware.RequireSelf())
		{
			habits.PUT("/good", handler.IncrementGoodHandler)
			habits.PUT("/bad", handler.IncrementBadHandler)
			habits.PUT("/good/decrement", handler.DecrementGoodHandler)
			habits.PUT("/bad/decrement", handler.DecrementBadHandler)
			habits.GET("/today", handler.GetTodayHabitsHandler)
			habits.GET("/habits", handler.GetUserHabitsHandler)
		}

		admin := protected.Group("/admin")
		{
			admin.POST("/rollover", handler.RolloverHandler)
		}
	}

	return router
}

// scheduleRolloverSweep runs the daily sweep shortly after every server-local
// midnight. The sweep is idempotent, so overlapping with the admin endpoint
// or a restart double-run is harmless.
func scheduleRolloverSweep() {
	svc := &usecase.RolloverService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}

	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
			time.Sleep(time.Until(next))

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if _, err := svc.Run(ctx); err != nil {
				log.Printf("Scheduled rollover sweep failed: %v", err)
			}
			cancel()
		}
	}()
}

func main() {
	userRepo := repository.GetUserRepo(utils.MongoClient)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("Failed to ensure user indexes: %v", err)
	}
	cancel()

	if utils.GetEnvAsBool("ROLLOVER_ENABLED", true) {
		scheduleRolloverSweep()
	}

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
