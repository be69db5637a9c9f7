package frontend

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AALEKH/oil/internal/tast"
)

// Load decodes the snapshot files at paths and merges them into a single
// typed graph. Decoding runs in parallel but the merged graph preserves the
// caller's path order, so the result is deterministic. jobs <= 0 means one
// worker per CPU.
func Load(ctx context.Context, paths []string, jobs int) (*tast.Graph, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no snapshot paths given")
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	snaps := make([]*Snapshot, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap, err := ReadSnapshot(path)
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := &tast.Graph{}
	for _, snap := range snaps {
		graph.Modules = append(graph.Modules, snap.Modules...)
		graph.Diagnostics = append(graph.Diagnostics, snap.Diagnostics...)
	}
	return graph, nil
}
