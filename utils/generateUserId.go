package utils

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

func GenerateUserID() string {
	return uuid.New().String()
}

// DefaultProfileImage returns a generated avatar URL seeded by the username.
func DefaultProfileImage(username string) string {
	return fmt.Sprintf("https://api.dicebear.com/9.x/thumbs/svg?seed=%s", url.QueryEscape(username))
}
