// model-check probes every configured provider model and prints the set
// that actually answers, so stale model ids can be pruned from the env
// before a solving run.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"quizsolver/internal/app"
	"quizsolver/internal/provider"
)

func main() {
	deps, err := app.BuildModelCheck()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logAdvertisedModels(ctx, deps)

	deps.Log.Info("probing models", "candidates", len(deps.Clients))
	working := provider.Discover(ctx, deps.Log, deps.Clients)

	labels := make([]string, 0, len(working))
	for _, c := range working {
		labels = append(labels, c.Name()+":"+c.Model())
	}
	sort.Strings(labels)

	fmt.Printf("%d/%d models working\n", len(working), len(deps.Clients))
	for _, label := range labels {
		fmt.Println(label)
	}

	if len(working) == 0 {
		os.Exit(1)
	}
}

// logAdvertisedModels asks each provider for its model listing once. Not
// every endpoint implements the route (Perplexity returns 404), so a
// failure only drops the hint, never the probe run.
func logAdvertisedModels(ctx context.Context, deps app.Deps) {
	seen := make(map[string]bool)
	for _, c := range deps.Clients {
		cc, ok := c.(*provider.ChatClient)
		if !ok || seen[c.Name()] {
			continue
		}
		seen[c.Name()] = true

		ids, err := cc.ListModels(ctx)
		if err != nil {
			deps.Log.Debug("model listing unavailable", "provider", c.Name(), "err", err)
			continue
		}
		deps.Log.Info("provider advertises models", "provider", c.Name(), "count", len(ids))
	}
}
