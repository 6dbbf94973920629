package cache

import (
	"fmt"
	"strings"
)

// RateLimitKey is the per-user request counter for the API rate limiter.
func RateLimitKey(userID string) string {
	return fmt.Sprintf("ratelimit:%s", strings.ToLower(userID))
}

// LoginAttemptKey counts failed sign-ins for an e-mail address.
func LoginAttemptKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", strings.ToLower(strings.TrimSpace(email)))
}
