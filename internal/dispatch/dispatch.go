// Package dispatch fans a single question out to every configured model
// concurrently and joins the results before voting.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"quizsolver/internal/provider"
)

// ErrAllFailed is returned when no model produced an answer within the
// time budget. Individual failures are reported inside the responses.
var ErrAllFailed = errors.New("all models failed")

// Dispatcher issues one request per client and collects whatever settles
// before the deadline.
type Dispatcher struct {
	clients []provider.Client
	timeout time.Duration
}

// New creates a dispatcher with one timeout spanning the whole fan-out.
func New(clients []provider.Client, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Dispatcher{
		clients: clients,
		timeout: timeout,
	}
}

// Ask queries all clients concurrently. Every client yields exactly one
// Response; a client that errors or runs past the deadline yields a
// failure-status Response rather than blocking the others. Ask returns
// ErrAllFailed only when not a single answer arrived.
func (d *Dispatcher) Ask(ctx context.Context, questionText string) ([]provider.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		responses = make([]provider.Response, 0, len(d.clients))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range d.clients {
		g.Go(func() error {
			start := time.Now()
			answer, err := c.Ask(ctx, questionText)

			resp := provider.Response{
				Provider: c.Name(),
				Model:    c.Model(),
				Latency:  time.Since(start),
			}
			if err != nil {
				resp.Err = err.Error()
			} else {
				resp.Answer = answer
			}

			mu.Lock()
			responses = append(responses, resp)
			mu.Unlock()
			return nil // best effort: one slow model never aborts the run
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := 0
	for _, r := range responses {
		if r.OK() {
			ok++
		}
	}
	if ok == 0 {
		return responses, ErrAllFailed
	}
	return responses, nil
}
