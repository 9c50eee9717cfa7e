package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"quizsolver/internal/app"
	"quizsolver/internal/consensus"
	"quizsolver/internal/dispatch"
	"quizsolver/internal/httputil"
	"quizsolver/internal/question"
	"quizsolver/internal/queue"
	"quizsolver/internal/solver"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("solve worker starting", "models", len(deps.Clients))

	dispatcher := dispatch.New(deps.Clients, deps.Config.SolveTimeout)
	voter := consensus.NewVoter(deps.Config.SimilarityThreshold)
	s := solver.New(deps.Log, dispatcher, voter, deps.Cache, deps.Store,
		time.Duration(deps.Config.CacheTTL)*time.Second)

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeSolve, func(ctx context.Context, task queue.Task) error {
			return handleSolve(ctx, deps, s, task)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.Port, "worker")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("worker stopped", "err", err)
	}
}

func handleSolve(ctx context.Context, deps app.Deps, s *solver.Solver, task queue.Task) error {
	var q question.Question
	if err := json.Unmarshal(task.Payload, &q); err != nil {
		deps.Log.Error("undecodable solve task dropped", "task_id", task.ID, "err", err)
		return nil // re-enqueueing a bad payload just loops it forever
	}

	outcome, err := s.Solve(ctx, q)
	if err != nil {
		// Returning the error lets the queue re-enqueue with backoff; a
		// later attempt may find more models responsive.
		return err
	}

	deps.Log.Info("question solved",
		"task_id", task.ID,
		"record_id", outcome.RecordID,
		"shape", q.Shape,
		"answer", outcome.Answer,
		"confidence", outcome.Confidence,
		"cached", outcome.Cached,
	)
	return nil
}
