package provider

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Discover probes every candidate client concurrently and returns the ones
// that answered. Providers periodically retire models, so the configured
// candidate list is a starting point, not a guarantee.
func Discover(ctx context.Context, log *slog.Logger, candidates []Client) []Client {
	var (
		mu      sync.Mutex
		working []Client
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range candidates {
		g.Go(func() error {
			if err := c.Probe(ctx); err != nil {
				log.Warn("model rejected", "provider", c.Name(), "model", c.Model(), "err", err)
				return nil // best effort: keep probing the rest
			}
			log.Info("model validated", "provider", c.Name(), "model", c.Model())
			mu.Lock()
			working = append(working, c)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return working
}
