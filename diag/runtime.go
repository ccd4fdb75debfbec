package diag

import (
	"fmt"
	"io"
	"runtime"
	"runtime/pprof"
)

// Runtime returns a snapshot of Go runtime statistics.
func Runtime() map[string]any {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return map[string]any{
		"go_version":      runtime.Version(),
		"goroutines":      runtime.NumGoroutine(),
		"num_cpu":         runtime.NumCPU(),
		"heap_alloc":      stats.HeapAlloc,
		"heap_sys":        stats.HeapSys,
		"heap_objects":    stats.HeapObjects,
		"stack_in_use":    stats.StackInuse,
		"total_alloc":     stats.TotalAlloc,
		"sys":             stats.Sys,
		"num_gc":          stats.NumGC,
		"gc_pause_total":  stats.PauseTotalNs,
		"last_gc_unix_ns": stats.LastGC,
	}
}

// Stacks returns a full dump of every goroutine's stack.
func Stacks() []byte {
	buf := make([]byte, 1<<20)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, len(buf)*2)
	}
}

// Heap writes a pprof heap profile. GC runs first so the profile reflects
// live objects.
func Heap(w io.Writer) error {
	runtime.GC()
	if err := pprof.WriteHeapProfile(w); err != nil {
		return fmt.Errorf("diag: write heap profile: %w", err)
	}
	return nil
}
