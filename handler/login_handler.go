package handler

import (
	"errors"
	"log"
	"time"

	"habittracker/dto"
	"habittracker/model"
	"habittracker/repository"
	"habittracker/services"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

const MaxActiveSessions = 5

func LoginHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	var loginReq dto.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, utils.CodeInvalidRequest, "Email and password are required")
		return
	}

	userService := &usecase.UserService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}

	user, err := userService.Authenticate(c.Request.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		if usecase.IsStoreError(err) {
			utils.StoreUnavailable(c)
			return
		}
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.TrackAuthAttempt("failure", "login")
			utils.Unauthorized(c, "Invalid credentials")
			return
		}
		utils.InternalError(c, "Login failed")
		return
	}

	if user.TwoFactorEnabled {
		if loginReq.TwoFactorCode == "" {
			utils.TrackAuthAttempt("pending", "2fa")
			utils.Success(c, gin.H{
				"requires_2fa": true,
				"message":      "2FA code required",
				"user_id":      user.UserID,
			})
			return
		}
		if !totp.Validate(loginReq.TwoFactorCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	ctx := c.Request.Context()

	var notice string
	activeCount, err := sessionRepo.CountActiveSessions(ctx, user.UserID)
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}
	if activeCount >= MaxActiveSessions {
		if err := sessionRepo.EndLeastActiveSession(ctx, user.UserID); err != nil {
			utils.StoreUnavailable(c)
			return
		}
		notice = "Logged out of least active session due to session limit"
		log.Printf("Ended least active session for user %s due to session limit", user.UserID)
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	utils.TokenUsage.WithLabelValues("access", "generated").Inc()

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}
	utils.TokenUsage.WithLabelValues("refresh", "generated").Inc()

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         user.UserID,
		DisplayName:    utils.SessionDisplayName(c.Request.UserAgent()),
		DeviceInfo:     c.Request.UserAgent(),
		IPAddress:      c.ClientIP(),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour)),
		LastActivityAt: time.Now(),
		IsActive:       true,
	}
	if err := sessionRepo.CreateSession(ctx, session); err != nil {
		log.Printf("Failed to record session for user %s: %v", user.UserID, err)
	}

	utils.TrackAuthAttempt("success", "login")

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
		"user":    dto.ToUserResponse(user),
	}
	if notice != "" {
		response["notice"] = notice
	}

	utils.Success(c, response)
}
