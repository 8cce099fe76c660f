package middleware

import (
	"fmt"
	"strings"
	"time"

	"habittracker/services"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the verified user ID
// in the context. Everything downstream trusts that identity.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Unauthorized(c, "Missing or invalid token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if services.IsTokenBlacklisted(tokenString) {
			utils.Unauthorized(c, "Token has been invalidated")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(utils.JWTSecretKey), nil
		})
		if err != nil || !token.Valid {
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["user_id"] == nil || claims["exp"] == nil {
			utils.Unauthorized(c, "Invalid token claims")
			c.Abort()
			return
		}

		// Refresh tokens only work at the refresh endpoint
		if tokenType, exists := claims["type"]; exists && tokenType == "refresh" {
			utils.Unauthorized(c, "Invalid token type")
			c.Abort()
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				utils.Unauthorized(c, "Token has expired")
				c.Abort()
				return
			}
		}

		if iss, ok := claims["iss"].(string); ok && iss != utils.TokenIssuer {
			utils.Unauthorized(c, "Invalid token issuer")
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			utils.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// RequireSelf guards routes with a :userId path segment: the habit ledger is
// only ever addressable by its owner.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenUser, exists := c.Get("user_id")
		if !exists {
			utils.Unauthorized(c, "Missing or invalid token")
			c.Abort()
			return
		}

		if c.Param("userId") != tokenUser.(string) {
			utils.TrackError("auth", "cross_user_access")
			utils.Forbidden(c, "Cannot access another user's habits")
			c.Abort()
			return
		}

		c.Next()
	}
}
