// Package actuator is an embeddable health-and-diagnostics subsystem for
// a running Go service. It aggregates the status of named health checks
// ("indicators"), exposes them with auxiliary metrics and diagnostics over
// HTTP, and lets the hosting application register custom checks and
// metrics at runtime.
//
//	cfg := actuator.DefaultConfig()
//	cfg.Health.Groups = map[string][]string{"liveness": {"process"}}
//	cfg.Health.Custom = []health.Registration{{
//	    Name:     "database",
//	    Critical: true,
//	    Check: func(ctx context.Context) health.Result {
//	        if err := db.PingContext(ctx); err != nil {
//	            return health.Down(err)
//	        }
//	        return health.Up()
//	    },
//	}}
//
//	act, err := actuator.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port, err := act.Start(0)
//	// GET :port/actuator/health          -> {"status":"UP"} (200)
//	// GET :port/actuator/health/database -> component detail
//	// GET :port/actuator/health/liveness -> group aggregate
//	// GET :port/actuator/metrics         -> prometheus scrape
//
// Endpoints mirror health in their status codes (200 for UP, 503
// otherwise) so probes need not parse bodies. Hosts that already run an
// HTTP server can mount Handler instead of calling Start.
package actuator
