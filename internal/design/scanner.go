package design

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/flga/feasible/internal/grid"
)

// scanner evaluates a read-only predicate over a list of candidate
// positions. It exists so the required-pixel and free-touch scans,
// each of which checks every candidate independently of the others,
// can run sequentially or on a fork-join worker pool behind the same
// call site.
type scanner interface {
	filter(candidates []grid.Pos, keep func(grid.Pos) bool) []grid.Pos
}

// sequentialScanner is the default: a single pass, in order. Used
// whenever determinism under inspection (tests, small grids) matters
// more than throughput - the predicate only ever reads shared state, so
// sequential and parallel scans agree on the result, just not on timing.
type sequentialScanner struct{}

func (sequentialScanner) filter(candidates []grid.Pos, keep func(grid.Pos) bool) []grid.Pos {
	out := make([]grid.Pos, 0, len(candidates))
	for _, p := range candidates {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// parallelScanner splits candidates into contiguous row-bands, one per
// GOMAXPROCS worker, each read-only against the Design's planes, joined
// with errgroup before any write-back happens. Chunk order is preserved
// across the join so results are reproducible regardless of scheduling.
type parallelScanner struct {
	workers int
}

func newParallelScanner() parallelScanner {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return parallelScanner{workers: n}
}

func (s parallelScanner) filter(candidates []grid.Pos, keep func(grid.Pos) bool) []grid.Pos {
	if len(candidates) == 0 {
		return nil
	}

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers <= 1 {
		return sequentialScanner{}.filter(candidates, keep)
	}

	chunkSize := (len(candidates) + workers - 1) / workers
	chunks := make([][]grid.Pos, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunkSize
		if start >= len(candidates) {
			continue
		}
		end := start + chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		g.Go(func() error {
			chunks[w] = sequentialScanner{}.filter(candidates[start:end], keep)
			return nil
		})
	}
	_ = g.Wait() // keep predicates never error; nothing to propagate.

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]grid.Pos, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
