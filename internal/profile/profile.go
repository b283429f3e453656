// Package profile keeps a keyed histogram of phase durations, the
// same shape as the original tool's profiler (a global map of string
// key to a slice of elapsed seconds, a start/stop pair of calls, and a
// summary print), plus a thin wrapper around runtime/pprof for the
// CPU/heap profiles cmd/feasible writes via its -cpuprofile/-memprofile
// flags.
package profile

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	timers = map[string][]time.Duration{}
)

// Timer marks the start of a named phase; call Stop to record its
// elapsed duration into the shared histogram.
type Timer struct {
	key   string
	start time.Time
}

// Start begins timing a phase named key.
func Start(key string) *Timer {
	return &Timer{key: key, start: time.Now()}
}

// Stop records the elapsed time since Start under the timer's key.
func (t *Timer) Stop() {
	elapsed := time.Since(t.start)
	mu.Lock()
	timers[t.key] = append(timers[t.key], elapsed)
	mu.Unlock()
}

// Stats summarizes one key's recorded durations.
type Stats struct {
	NumCalls int
	Total    time.Duration
	Mean     time.Duration
}

// Summary returns per-key stats over everything recorded so far.
func Summary() map[string]Stats {
	mu.Lock()
	defer mu.Unlock()

	out := make(map[string]Stats, len(timers))
	for k, durations := range timers {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		n := len(durations)
		mean := time.Duration(0)
		if n > 0 {
			mean = total / time.Duration(n)
		}
		out[k] = Stats{NumCalls: n, Total: total, Mean: mean}
	}
	return out
}

// PrintSummary writes every key's stats to w, sorted by key for a
// stable, diffable report.
func PrintSummary(w io.Writer) {
	summary := Summary()
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s := summary[k]
		fmt.Fprintf(w, "%s:\n  calls=%d total=%s mean=%s\n", k, s.NumCalls, s.Total, s.Mean)
	}
}

// Reset clears every recorded phase; the tests call it between runs.
func Reset() {
	mu.Lock()
	timers = map[string][]time.Duration{}
	mu.Unlock()
}

// CPUProfile starts a CPU profile written to path and returns a stop
// function; the caller is expected to defer the returned function,
// matching cmd/vnes/main.go's pprof.StartCPUProfile/StopCPUProfile
// pairing.
func CPUProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("profile: could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("profile: could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// WriteHeapProfile forces a GC and writes the current heap profile to
// path, mirroring cmd/vnes/main.go's memprofile handling.
func WriteHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("profile: could not create memory profile: %w", err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("profile: could not write memory profile: %w", err)
	}
	return nil
}
