package ratelimit

import (
	"strings"
	"time"

	"media-studio/internal/config"
)

// Policy is the number of calls admitted per sliding window.
type Policy struct {
	Requests int
	Window   time.Duration
}

// PolicyFunc resolves the policy for an operation class.
type PolicyFunc func(operation string) Policy

// FromConfig resolves policies from the configured defaults and overrides.
func FromConfig(cfg *config.Config) PolicyFunc {
	return func(operation string) Policy {
		p := cfg.RateLimitFor(operation)
		return Policy{Requests: p.Requests, Window: p.Window}
	}
}

// Fixed applies the same policy to every operation.
func Fixed(requests int, window time.Duration) PolicyFunc {
	return func(string) Policy {
		return Policy{Requests: requests, Window: window}
	}
}

// operationOf returns the operation class of a "<operation>_<subject>" key.
func operationOf(key string) string {
	operation, _, _ := strings.Cut(key, "_")
	return operation
}
