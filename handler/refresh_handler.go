package handler

import (
	"strings"
	"time"

	"habittracker/services"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func RefreshTokenHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid refresh token")
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	if services.IsTokenBlacklisted(refreshToken) {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Token has been invalidated")
		return
	}

	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" || claims["user_id"] == nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid token claims")
		return
	}

	if exp, ok := claims["exp"].(float64); ok && time.Unix(int64(exp), 0).Before(time.Now()) {
		utils.Unauthorized(c, "Refresh token has expired")
		return
	}

	if iss, ok := claims["iss"].(string); ok && iss != utils.TokenIssuer {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid token issuer")
		return
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		utils.Unauthorized(c, "Invalid user ID in token")
		return
	}

	newAccessToken, err := services.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new access token")
		return
	}

	newRefreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate new refresh token")
		return
	}

	// Retire the old refresh token so it cannot be replayed
	if services.TokenBlacklist != nil {
		if err := services.BlacklistTokens(refreshToken, refreshToken); err != nil {
			utils.TrackError("auth", "refresh_blacklist_failed")
		}
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"token":   newAccessToken,
		"refresh": newRefreshToken,
	})
}
