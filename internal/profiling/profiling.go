// Package profiling keeps per-frame CPU timers and event counters for the
// render loop. Everything resets at the start of a frame.
package profiling

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

type frame struct {
	mu       sync.Mutex
	timers   map[string]time.Duration
	counters map[string]int64
}

var current = frame{
	timers:   make(map[string]time.Duration),
	counters: make(map[string]int64),
}

// Track returns a stop function that adds the elapsed time to name.
//
//	defer profiling.Track("world.Refresh")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		current.mu.Lock()
		current.timers[name] += d
		current.mu.Unlock()
	}
}

// Count adds n to the named counter.
func Count(name string, n int64) {
	current.mu.Lock()
	current.counters[name] += n
	current.mu.Unlock()
}

// ResetFrame clears timers and counters.
func ResetFrame() {
	current.mu.Lock()
	clear(current.timers)
	clear(current.counters)
	current.mu.Unlock()
}

// Snapshot returns a copy of the timer totals.
func Snapshot() map[string]time.Duration {
	current.mu.Lock()
	defer current.mu.Unlock()
	return maps.Clone(current.timers)
}

// Counter returns the value of a counter.
func Counter(name string) int64 {
	current.mu.Lock()
	defer current.mu.Unlock()
	return current.counters[name]
}

// TopN formats the n most expensive timers, e.g.
// "render.VisibleMeshes:4.2ms, world.RequestAround:0.3ms".
func TopN(n int) string {
	timers := Snapshot()
	names := slices.Collect(maps.Keys(timers))
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(timers[b], timers[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	parts := make([]string, 0, min(n, len(names)))
	for _, name := range names[:min(n, len(names))] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", name, float64(timers[name].Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}

// Counters formats every non-zero counter sorted by name, e.g.
// "render.chunks=12 world.queued=3".
func Counters() string {
	current.mu.Lock()
	defer current.mu.Unlock()

	parts := make([]string, 0, len(current.counters))
	for _, name := range slices.Sorted(maps.Keys(current.counters)) {
		if v := current.counters[name]; v != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, v))
		}
	}
	return strings.Join(parts, " ")
}
