package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"quizsolver/internal/consensus"
	"quizsolver/internal/match"
	"quizsolver/internal/question"
)

// Cache stores solved questions so a question repeated later in a test run
// skips the model fan-out entirely.
type Cache interface {
	// GetResult retrieves a cached solve by key. Returns nil on miss.
	GetResult(ctx context.Context, key string) (*Result, error)

	// SetResult stores a solve with TTL.
	SetResult(ctx context.Context, key string, result *Result, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Result is the cached outcome for one question.
type Result struct {
	Answer     string       `json:"answer"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Action     match.Action `json:"action"`
}

// Key derives a stable cache key from the question's normalized text, shape
// and option labels. Two scrapes of the same on-page question hash equal
// even when whitespace or casing differ.
func Key(q question.Question) string {
	parts := make([]string, 0, len(q.Options)+2)
	parts = append(parts, consensus.Normalize(q.Text), string(q.Shape))
	for _, opt := range q.Options {
		parts = append(parts, consensus.Normalize(opt))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
