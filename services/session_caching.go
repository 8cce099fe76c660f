package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habittracker/model"

	"github.com/redis/go-redis/v9"
)

// GlobalSessionCache fronts the session collection. Best effort: every cache
// failure falls through to MongoDB.
var GlobalSessionCache *SessionCache

type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(redisURL string, ttl time.Duration) (*SessionCache, error) {
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

	return &SessionCache{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (c *SessionCache) SetSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return c.client.Set(context.Background(), sessionKey(session.SessionID), payload, c.ttl).Err()
}

func (c *SessionCache) GetSession(sessionID string) (*model.Session, error) {
	payload, err := c.client.Get(context.Background(), sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &session, nil
}

func (c *SessionCache) DeleteSession(sessionID string) error {
	return c.client.Del(context.Background(), sessionKey(sessionID)).Err()
}

// IsConnected reports whether the Redis connection is alive.
func (c *SessionCache) IsConnected() bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.Ping(context.Background()).Err() == nil
}

func (c *SessionCache) Close() error {
	return c.client.Close()
}
