package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"habittracker/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// TokenBlacklist is the global instance, set at startup. When nil (Redis
// unavailable), logout still succeeds but tokens expire naturally.
var TokenBlacklist *RedisTokenBlacklist

// NewTokenBlacklist creates a Redis-backed token blacklist and verifies the
// connection.
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

// BlacklistTokens invalidates an access/refresh token pair until each expires.
func BlacklistTokens(accessToken, refreshToken string) error {
	if TokenBlacklist == nil {
		return fmt.Errorf("token blacklist not initialized")
	}

	if err := TokenBlacklist.blacklist(accessToken, "access"); err != nil {
		return fmt.Errorf("failed to blacklist access token: %w", err)
	}
	if err := TokenBlacklist.blacklist(refreshToken, "refresh"); err != nil {
		return fmt.Errorf("failed to blacklist refresh token: %w", err)
	}

	utils.TokenUsage.WithLabelValues("access", "blacklisted").Inc()
	utils.TokenUsage.WithLabelValues("refresh", "blacklisted").Inc()
	return nil
}

func (tb *RedisTokenBlacklist) blacklist(tokenString, tokenType string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		// An already-expired token needs no blacklist entry
		if strings.Contains(err.Error(), "token is expired") {
			return nil
		}
		return fmt.Errorf("failed to parse token: %w", err)
	}

	expiration := time.Now().Add(24 * time.Hour)
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if exp, ok := claims["exp"].(float64); ok {
			expiration = time.Unix(int64(exp), 0)
		}
	}

	key := fmt.Sprintf("blacklist:%s:%s", tokenType, tokenString)
	return tb.Client.Set(context.Background(), key, "1", time.Until(expiration)).Err()
}

// IsTokenBlacklisted checks if a token has been invalidated by a logout.
func IsTokenBlacklisted(tokenString string) bool {
	if TokenBlacklist == nil {
		return false
	}

	ctx := context.Background()
	pipe := TokenBlacklist.Client.Pipeline()
	accessCmd := pipe.Exists(ctx, fmt.Sprintf("blacklist:access:%s", tokenString))
	refreshCmd := pipe.Exists(ctx, fmt.Sprintf("blacklist:refresh:%s", tokenString))

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error checking token blacklist: %v", err)
		return false
	}

	return accessCmd.Val() > 0 || refreshCmd.Val() > 0
}

// IsConnected reports whether the Redis connection is alive.
func (tb *RedisTokenBlacklist) IsConnected() bool {
	if tb == nil || tb.Client == nil {
		return false
	}
	return tb.Client.Ping(context.Background()).Err() == nil
}

// Close closes the Redis connection.
func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}
