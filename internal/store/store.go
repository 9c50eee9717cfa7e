package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quizsolver/internal/question"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is the audit trail for one solve attempt, successful or not.
type Record struct {
	ID           uuid.UUID
	Question     string
	Shape        question.Shape
	Answer       string
	Confidence   float64
	Models       []string // "provider:model" labels backing the answer
	FailedModels []string // labels that errored or timed out
	Solved       bool
	LatencyMS    int64
	CreatedAt    time.Time
}

// Stats summarizes a run: how many questions resolved, how many did not,
// and how confident the successful votes were on average.
type Stats struct {
	Solved        int     `json:"solved"`
	Failed        int     `json:"failed"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Store defines persistence contract; an external DB implementation can replace this.
type Store interface {
	SaveRecord(ctx context.Context, rec Record) (Record, error)
	GetRecord(ctx context.Context, id uuid.UUID) (Record, error)
	Stats(ctx context.Context) (Stats, error)
}
