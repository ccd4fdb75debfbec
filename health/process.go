package health

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessName is the registry name of the built-in process indicator.
const ProcessName = "process"

// Process reports a snapshot of the running process: pid, uptime, runtime
// version and memory/CPU figures. It is always UP; its value is in the
// details.
type Process struct {
	pid   int32
	start time.Time
	proc  *process.Process
}

// NewProcess creates a new process indicator for the current process.
func NewProcess() *Process {
	pid := int32(os.Getpid())
	p := &Process{pid: pid, start: time.Now()}

	// OS-level lookups are best effort; the indicator degrades to
	// runtime-only details when the platform does not cooperate.
	if proc, err := process.NewProcess(pid); err == nil {
		p.proc = proc
	}
	return p
}

// Name returns the name of this indicator.
func (p *Process) Name() string {
	return ProcessName
}

// Check returns the process snapshot.
func (p *Process) Check(ctx context.Context) Result {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	details := map[string]any{
		"pid":        p.pid,
		"uptime":     time.Since(p.start).Round(time.Millisecond).String(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"num_cpu":    runtime.NumCPU(),
		"heap_alloc": stats.HeapAlloc,
		"sys":        stats.Sys,
		"num_gc":     stats.NumGC,
	}

	if p.proc != nil {
		if created, err := p.proc.CreateTimeWithContext(ctx); err == nil {
			details["uptime"] = time.Since(time.UnixMilli(created)).Round(time.Millisecond).String()
		}
		if pct, err := p.proc.CPUPercentWithContext(ctx); err == nil {
			details["cpu_percent"] = pct
		}
		if mem, err := p.proc.MemoryInfoWithContext(ctx); err == nil {
			details["rss"] = mem.RSS
			details["vms"] = mem.VMS
		}
	}

	return Up().WithDetails(details)
}
