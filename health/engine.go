package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Mode selects how much detail a collection exposes.
type Mode string

const (
	// ModeAlways includes per-indicator components in the response.
	ModeAlways Mode = "always"
	// ModeNever returns the aggregate status only.
	ModeNever Mode = "never"
)

// Config configures the health engine.
type Config struct {
	// Timeout is the maximum time one indicator check may take before its
	// slot is reported as DOWN. Default: 5 seconds.
	Timeout time.Duration

	// Clock drives the per-check timeout. Default: the real clock.
	Clock clockwork.Clock

	// Groups maps group names to ordered lists of indicator names.
	// Members that are not registered are skipped at evaluation time.
	Groups map[string][]string
}

// Response is the aggregate outcome of a collection.
type Response struct {
	Status     Status            `json:"status"`
	Components map[string]Result `json:"components,omitempty"`
}

// Engine executes named indicator checks concurrently and aggregates their
// results. Every collection is a stateless read over a snapshot of the
// registry taken at call time; nothing is recorded between calls.
type Engine struct {
	timeout time.Duration
	clock   clockwork.Clock

	mu         sync.RWMutex
	indicators map[string]*entry
	order      []string
	groups     map[string][]string
}

type entry struct {
	indicator Indicator
	critical  bool
}

// namedEntry is one element of a registry snapshot.
type namedEntry struct {
	name string
	entry
}

// NewEngine creates a new health engine.
func NewEngine(config ...Config) *Engine {
	cfg := Config{Timeout: 5 * time.Second}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 5 * time.Second
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	e := &Engine{
		timeout:    cfg.Timeout,
		clock:      cfg.Clock,
		indicators: make(map[string]*entry),
		order:      make([]string, 0),
		groups:     make(map[string][]string),
	}
	for name, members := range cfg.Groups {
		e.groups[name] = append([]string(nil), members...)
	}
	return e
}

// Timeout returns the per-check timeout.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// AddIndicator registers an indicator. Re-registering an existing name
// overwrites the previous registration and keeps its original slot in
// registration order.
func (e *Engine) AddIndicator(reg Registration) error {
	name, ind, err := reg.normalize()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indicators[name]; !exists {
		e.order = append(e.order, name)
	}
	e.indicators[name] = &entry{indicator: ind, critical: reg.Critical}
	return nil
}

// RemoveIndicator removes an indicator from the registry. It reports
// whether an entry was actually present.
func (e *Engine) RemoveIndicator(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.indicators[name]; !ok {
		return false
	}
	delete(e.indicators, name)

	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// IndicatorNames returns the registered indicator names in registration
// order.
func (e *Engine) IndicatorNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// AddGroup defines (or redefines) a named group of indicator names.
func (e *Engine) AddGroup(name string, members ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups[name] = append([]string(nil), members...)
}

// GroupNames returns the defined group names, sorted.
func (e *Engine) GroupNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.groups))
	for name := range e.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shallow executes every registered indicator and returns the aggregate
// status alone. All indicators still run so a critical failure anywhere is
// reflected even though per-indicator detail is discarded.
func (e *Engine) Shallow(ctx context.Context) Response {
	entries := e.snapshot(nil)
	results := e.check(ctx, entries)
	return Response{Status: aggregate(entries, results)}
}

// Deep executes every registered indicator and returns the aggregate plus
// the full per-indicator component map.
func (e *Engine) Deep(ctx context.Context) Response {
	entries := e.snapshot(nil)
	results := e.check(ctx, entries)
	return Response{Status: aggregate(entries, results), Components: results}
}

// Collect dispatches to Deep when mode is ModeAlways, and to Shallow
// otherwise.
func (e *Engine) Collect(ctx context.Context, mode Mode) Response {
	if mode == ModeAlways {
		return e.Deep(ctx)
	}
	return e.Shallow(ctx)
}

// Component executes exactly one indicator in isolation. It returns
// ErrIndicatorNotFound if the name is not registered.
func (e *Engine) Component(ctx context.Context, name string) (Result, error) {
	e.mu.RLock()
	en, ok := e.indicators[name]
	e.mu.RUnlock()

	if !ok {
		return Result{}, ErrIndicatorNotFound
	}
	return e.runCheck(ctx, name, en.indicator), nil
}

// Group evaluates the members of a named group that exist in the registry
// (unknown member names are skipped) and aggregates over that subset. It
// returns ErrGroupNotFound if the group is unknown.
func (e *Engine) Group(ctx context.Context, name string) (Response, error) {
	e.mu.RLock()
	members, ok := e.groups[name]
	e.mu.RUnlock()

	if !ok {
		return Response{}, ErrGroupNotFound
	}

	entries := e.snapshot(members)
	results := e.check(ctx, entries)
	return Response{Status: aggregate(entries, results), Components: results}, nil
}

// snapshot captures the subset of the registry to run before dispatching,
// so a concurrent RemoveIndicator cannot change which indicators an
// in-flight collection is awaiting. A nil name list selects the whole
// registry in registration order.
func (e *Engine) snapshot(names []string) []namedEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if names == nil {
		names = e.order
	}

	entries := make([]namedEntry, 0, len(names))
	for _, name := range names {
		if en, ok := e.indicators[name]; ok {
			entries = append(entries, namedEntry{name: name, entry: *en})
		}
	}
	return entries
}

// check fans out every entry's check without waiting on each other, then
// joins all (possibly timed-out) results into a name-keyed map.
func (e *Engine) check(ctx context.Context, entries []namedEntry) map[string]Result {
	results := make(map[string]Result, len(entries))
	if len(entries) == 0 {
		return results
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, en := range entries {
		wg.Add(1)
		go func(en namedEntry) {
			defer wg.Done()
			result := e.runCheck(ctx, en.name, en.indicator)
			mu.Lock()
			results[en.name] = result
			mu.Unlock()
		}(en)
	}

	wg.Wait()
	return results
}

// runCheck races one indicator's check against the per-check timeout. A
// panicking check is recovered into a DOWN result; a check that loses the
// race has its context cancelled but is not waited for, and its slot
// reports DOWN with a timeout detail.
func (e *Engine) runCheck(ctx context.Context, name string, ind Indicator) Result {
	checkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan Result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- Down(fmt.Errorf("%v", rec))
			}
		}()
		resultCh <- ind.Check(checkCtx)
	}()

	timer := e.clock.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		return result
	case <-timer.Chan():
		return Result{
			Status: StatusDown,
			Details: map[string]any{
				"error": fmt.Sprintf("%s timed out after %dms", name, e.timeout.Milliseconds()),
			},
		}
	}
}

// aggregate computes the overall status for a set of results.
//
// An empty set is UNKNOWN. A critical indicator reporting DOWN forces the
// aggregate to DOWN before anything else is considered; otherwise the worst
// status among all members wins, UP by default. The critical branch is kept
// distinct even though DOWN already ranks worst in the severity order.
func aggregate(entries []namedEntry, results map[string]Result) Status {
	if len(results) == 0 {
		return StatusUnknown
	}

	for _, en := range entries {
		if !en.critical {
			continue
		}
		if result, ok := results[en.name]; ok && result.Status == StatusDown {
			return StatusDown
		}
	}

	overall := StatusUp
	for _, result := range results {
		overall = Worst(overall, result.Status)
	}
	return overall
}
