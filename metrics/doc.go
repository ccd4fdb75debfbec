// Package metrics wraps an OpenTelemetry meter behind a small
// counter/gauge/histogram registry for the monitoring subsystem and its
// hosting application.
//
//	reg, err := metrics.NewRegistry(metrics.Config{
//	    ServiceName: "orders",
//	    Exporter:    "prometheus",
//	})
//	requests, _ := reg.Counter("http_requests", "Handled HTTP requests")
//	requests.Inc(ctx, metrics.Label("endpoint", "health"))
//
// With the prometheus exporter, Handler returns the scrape endpoint to
// mount; other exporters push on their own and Handler returns nil.
package metrics
