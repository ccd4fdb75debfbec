package diag

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Snapshot is a one-shot diagnostics capture.
type Snapshot struct {
	Env     map[string]string `json:"env"`
	Runtime map[string]any    `json:"runtime"`
	Stacks  string            `json:"stacks"`
}

// Collect gathers all diagnostic sections concurrently.
func Collect(ctx context.Context, envMasks []string) (*Snapshot, error) {
	var snap Snapshot

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Env = Env(envMasks)
		return nil
	})
	g.Go(func() error {
		snap.Runtime = Runtime()
		return nil
	})
	g.Go(func() error {
		snap.Stacks = string(Stacks())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
