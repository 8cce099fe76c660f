package services

import (
	"time"

	"habittracker/utils"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken generates a short-lived access token carrying the user ID.
func GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iss":     utils.TokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(utils.JWTExpirationTime) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// GenerateRefreshToken generates a long-lived token usable only at the
// refresh endpoint, marked with type "refresh".
func GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iss":     utils.TokenIssuer,
		"type":    "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(utils.RefreshTokenExpirationTime) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}
