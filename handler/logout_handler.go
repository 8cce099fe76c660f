package handler

import (
	"fmt"
	"log"
	"strings"

	"habittracker/repository"
	"habittracker/services"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func LogoutHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	if _, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	}); err != nil {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	refreshToken := c.GetHeader("Refresh-Token")
	if refreshToken == "" {
		utils.BadRequest(c, utils.CodeInvalidRequest, "Missing refresh token")
		return
	}

	if err := services.BlacklistTokens(accessToken, refreshToken); err != nil {
		log.Printf("Failed to blacklist tokens on logout: %v", err)
		utils.InternalError(c, "Failed to logout")
		return
	}

	if userID, exists := c.Get("user_id"); exists {
		if err := sessionRepo.DeleteUserSessions(c.Request.Context(), userID.(string)); err != nil {
			log.Printf("Failed to end sessions for user %v: %v", userID, err)
		}
	}

	utils.Success(c, gin.H{"message": "Successfully logged out"})
}
