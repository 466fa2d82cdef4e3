package profiling

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick CPU profiler. Chunk jobs on the worker pool also
// record here, so totals may include time spent off the simulation goroutine.

// Entry is the accumulated time of one tracked name.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu         sync.Mutex
	tickTotals = make(map[string]*Entry)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e, ok := tickTotals[name]
		if !ok {
			e = &Entry{Name: name}
			tickTotals[name] = e
		}
		e.Total += d
		e.Calls++
		mu.Unlock()
	}
}

// ResetFrame clears the current per-tick totals. Call at the start of each tick.
func ResetFrame() {
	mu.Lock()
	clear(tickTotals)
	mu.Unlock()
}

// Snapshot returns the current entries, longest first. Ties sort by name.
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(tickTotals))
	for _, e := range tickTotals {
		out = append(out, *e)
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n longest entries of the current tick.
// Example: "world.Update:4.2ms, physics.Update:310µs"
func TopN(n int) string {
	list := Snapshot()
	n = min(max(n, 0), len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.Name+":"+e.Total.Round(10*time.Microsecond).String())
	}
	return strings.Join(parts, ", ")
}
