// Package solver drives one question through the full pipeline:
// cache lookup, model fan-out, consensus vote, option matching, audit record.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quizsolver/internal/cache"
	"quizsolver/internal/consensus"
	"quizsolver/internal/dispatch"
	"quizsolver/internal/match"
	"quizsolver/internal/provider"
	"quizsolver/internal/question"
	"quizsolver/internal/store"
)

// ErrBadQuestion is returned for questions the pipeline cannot act on:
// empty text, unknown shape, or a choice shape with no options.
var ErrBadQuestion = errors.New("bad question")

// Outcome is what the automation needs to act on one solved question.
type Outcome struct {
	RecordID   uuid.UUID           `json:"record_id,omitempty"`
	Answer     string              `json:"answer"`
	Text       string              `json:"text"`
	Confidence float64             `json:"confidence"`
	Action     match.Action        `json:"action"`
	Responses  []provider.Response `json:"responses,omitempty"`
	Cached     bool                `json:"cached"`
}

// Solver wires the pipeline stages together. It holds no per-question
// state; a single instance serves concurrent solves.
type Solver struct {
	log        *slog.Logger
	dispatcher *dispatch.Dispatcher
	voter      *consensus.Voter
	cache      cache.Cache
	store      store.Store
	cacheTTL   time.Duration
}

func New(log *slog.Logger, d *dispatch.Dispatcher, v *consensus.Voter, c cache.Cache, st store.Store, cacheTTL time.Duration) *Solver {
	return &Solver{
		log:        log,
		dispatcher: d,
		voter:      v,
		cache:      c,
		store:      st,
		cacheTTL:   cacheTTL,
	}
}

// Solve answers one question. Provider failures are absorbed as long as at
// least one model answers; dispatch.ErrAllFailed, consensus.ErrNoConsensus
// and match.ErrNoMatch surface to the caller, which decides whether to skip
// or retry the question.
func (s *Solver) Solve(ctx context.Context, q question.Question) (Outcome, error) {
	if err := validate(q); err != nil {
		return Outcome{}, err
	}

	key := cache.Key(q)
	if cached, err := s.cache.GetResult(ctx, key); err == nil && cached != nil {
		s.log.Info("cache hit", "shape", q.Shape)
		return Outcome{
			Answer:     cached.Answer,
			Text:       cached.Text,
			Confidence: cached.Confidence,
			Action:     cached.Action,
			Cached:     true,
		}, nil
	} else if err != nil {
		s.log.Warn("cache lookup failed", "err", err)
	}

	start := time.Now()
	responses, err := s.dispatcher.Ask(ctx, q.Text)
	if err != nil {
		s.record(ctx, q, store.Record{
			FailedModels: failedLabels(responses),
			LatencyMS:    time.Since(start).Milliseconds(),
		})
		return Outcome{Responses: responses}, err
	}

	result, err := s.voter.Vote(responses)
	if err != nil {
		s.record(ctx, q, store.Record{
			FailedModels: failedLabels(responses),
			LatencyMS:    time.Since(start).Milliseconds(),
		})
		return Outcome{Responses: responses}, err
	}

	answer := result.Answer
	if q.Shape == question.ShapeFreeText {
		// Type the answer as a model phrased it, not the folded form.
		answer = result.Text
	}
	action, err := match.Resolve(answer, q)
	if err != nil {
		s.record(ctx, q, store.Record{
			Answer:       result.Answer,
			Confidence:   result.Confidence,
			FailedModels: failedLabels(responses),
			LatencyMS:    time.Since(start).Milliseconds(),
		})
		return Outcome{Responses: responses}, fmt.Errorf("resolving %s answer: %w", q.Shape, err)
	}

	rec := s.record(ctx, q, store.Record{
		Answer:       result.Answer,
		Confidence:   result.Confidence,
		Models:       clusterLabels(result.Cluster),
		FailedModels: failedLabels(responses),
		Solved:       true,
		LatencyMS:    time.Since(start).Milliseconds(),
	})

	if err := s.cache.SetResult(ctx, key, &cache.Result{
		Answer:     result.Answer,
		Text:       result.Text,
		Confidence: result.Confidence,
		Action:     action,
	}, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache result", "err", err)
	}

	return Outcome{
		RecordID:   rec.ID,
		Answer:     result.Answer,
		Text:       result.Text,
		Confidence: result.Confidence,
		Action:     action,
		Responses:  responses,
	}, nil
}

// record persists the audit record. Storage trouble is logged, never
// allowed to fail the solve itself.
func (s *Solver) record(ctx context.Context, q question.Question, rec store.Record) store.Record {
	rec.Question = q.Text
	rec.Shape = q.Shape
	saved, err := s.store.SaveRecord(ctx, rec)
	if err != nil {
		s.log.Warn("failed to save solve record", "err", err)
		return rec
	}
	return saved
}

func validate(q question.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: empty text", ErrBadQuestion)
	}
	if !q.Shape.Valid() {
		return fmt.Errorf("%w: unknown shape %q", ErrBadQuestion, q.Shape)
	}
	if q.Shape.Choice() && len(q.Options) == 0 {
		return fmt.Errorf("%w: %s question without options", ErrBadQuestion, q.Shape)
	}
	return nil
}

func failedLabels(responses []provider.Response) []string {
	var labels []string
	for _, r := range responses {
		if !r.OK() {
			labels = append(labels, r.Label())
		}
	}
	return labels
}

func clusterLabels(cluster []provider.Response) []string {
	labels := make([]string, 0, len(cluster))
	for _, r := range cluster {
		labels = append(labels, r.Label())
	}
	return labels
}
