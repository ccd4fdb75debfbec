// Package health implements the indicator registry and aggregation engine
// at the core of the monitoring subsystem.
//
// An Indicator is a named check contributing one status/details pair. The
// Engine keeps an ordered registry of indicators, executes any subset of
// them concurrently with a per-check timeout, and folds the results into a
// single aggregate status following the severity order
// DOWN < OUT_OF_SERVICE < UNKNOWN < UP.
//
// # Basic Usage
//
//	engine := health.NewEngine(health.Config{Timeout: 2 * time.Second})
//	engine.AddIndicator(health.Registration{Indicator: health.NewProcess()})
//	engine.AddIndicator(health.Registration{
//	    Name:     "database",
//	    Check:    dbCheck,
//	    Critical: true,
//	})
//
//	resp := engine.Deep(ctx)
//	if resp.Status != health.StatusUp {
//	    // inspect resp.Components
//	}
//
// # Groups
//
// A group is a named, ordered subset of indicator names evaluated and
// aggregated together, the usual shape of Kubernetes liveness/readiness
// probes:
//
//	engine.AddGroup("liveness", "process")
//	engine.AddGroup("readiness", "database", "diskSpace")
//	resp, err := engine.Group(ctx, "readiness")
//
// # Failure Semantics
//
// A check that panics, reports an error or outruns the timeout is always
// isolated into a DOWN result for its own slot; it never aborts sibling
// checks and never propagates out of a collection call. A timed-out check
// has its context cancelled but is not waited for.
package health
