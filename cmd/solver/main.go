package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quizsolver/internal/app"
	"quizsolver/internal/consensus"
	"quizsolver/internal/dispatch"
	"quizsolver/internal/httputil"
	"quizsolver/internal/match"
	"quizsolver/internal/question"
	"quizsolver/internal/queue"
	"quizsolver/internal/solver"
	"quizsolver/internal/store"
)

type solveRequest struct {
	Text    string   `json:"text" validate:"required,min=2,max=2000"`
	Shape   string   `json:"shape" validate:"required,oneof=free_text single_choice multi_choice dropdown"`
	Options []string `json:"options" validate:"omitempty,max=30,dive,min=1,max=500"`
}

func (req solveRequest) question() question.Question {
	return question.Question{
		Text:    req.Text,
		Shape:   question.Shape(req.Shape),
		Options: req.Options,
	}
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	dispatcher := dispatch.New(deps.Clients, deps.Config.SolveTimeout)
	voter := consensus.NewVoter(deps.Config.SimilarityThreshold)
	s := solver.New(deps.Log, dispatcher, voter, deps.Cache, deps.Store,
		time.Duration(deps.Config.CacheTTL)*time.Second)

	r := httputil.NewRouter(deps.Log)
	r.Post("/api/solve", solveHandler(deps, s))
	r.Post("/api/solve/async", enqueueHandler(deps))
	r.Get("/api/records/{id}", recordHandler(deps))
	r.Get("/api/stats", statsHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("solver service listening", "addr", addr, "models", len(deps.Clients))
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

func solveHandler(deps app.Deps, s *solver.Solver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req solveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		outcome, err := s.Solve(r.Context(), req.question())
		if err != nil {
			status := solveErrorStatus(err)
			deps.Log.Warn("solve failed", "shape", req.Shape, "err", err)
			httputil.WriteJSON(w, status, map[string]any{
				"error":     err.Error(),
				"responses": outcome.Responses,
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, outcome)
	}
}

// solveErrorStatus maps pipeline failures onto statuses the automation loop
// can branch on: 502 means retry later, 422 means skip the question.
func solveErrorStatus(err error) int {
	switch {
	case errors.Is(err, solver.ErrBadQuestion):
		return http.StatusBadRequest
	case errors.Is(err, dispatch.ErrAllFailed), errors.Is(err, consensus.ErrNoConsensus):
		return http.StatusBadGateway
	case errors.Is(err, match.ErrNoMatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func enqueueHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req solveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		payload, err := json.Marshal(req.question())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to encode task", err, http.StatusInternalServerError)
			return
		}
		task := queue.Task{
			ID:      uuid.New(),
			Type:    queue.TaskTypeSolve,
			Payload: payload,
		}
		if err := queue.EnqueueWithRetry(r.Context(), deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			httputil.Fail(deps.Log, w, "failed to enqueue question", err, http.StatusServiceUnavailable)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"task_id": task.ID.String(),
			"status":  "queued",
		})
	}
}

func recordHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid record id", err, http.StatusBadRequest)
			return
		}

		rec, err := deps.Store.GetRecord(r.Context(), id)
		if errors.Is(err, store.ErrRecordNotFound) {
			httputil.Fail(deps.Log, w, "record not found", err, http.StatusNotFound)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load record", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"id":            rec.ID.String(),
			"question":      rec.Question,
			"shape":         rec.Shape,
			"answer":        rec.Answer,
			"confidence":    rec.Confidence,
			"models":        rec.Models,
			"failed_models": rec.FailedModels,
			"solved":        rec.Solved,
			"latency_ms":    rec.LatencyMS,
			"created_at":    rec.CreatedAt,
		})
	}
}

func statsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.Store.Stats(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load stats", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, stats)
	}
}
