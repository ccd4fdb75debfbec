package actuator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/opskit/actuator/health"
	"github.com/opskit/actuator/logging"
	"github.com/opskit/actuator/metrics"
	"github.com/opskit/actuator/router"
)

// Option customizes construction beyond what Config covers.
type Option func(*options)

type options struct {
	logger logging.Logger
	clock  clockwork.Clock
}

// WithLogger replaces the built-in structured logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock injects the clock driving per-check timeouts. Tests use a
// clockwork fake clock here.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Actuator is the assembled monitoring subsystem: health engine, metrics
// registry, diagnostics and the router exposing them. It embeds into a
// hosting application either through Start/Stop (own listener) or via
// Handler (mounted on the host's server).
type Actuator struct {
	cfg      Config
	logger   logging.Logger
	engine   *health.Engine
	registry *metrics.Registry
	router   *router.Router
	server   *router.Server

	requests  metrics.Counter
	durations metrics.Histogram
}

// New wires a subsystem from the given configuration. Partial configs
// should start from DefaultConfig. Configuration errors fail here, not
// later.
func New(cfg Config, opts ...Option) (*Actuator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.New(cfg.Log.Level)
	}

	a := &Actuator{cfg: cfg, logger: o.logger}

	a.engine = health.NewEngine(health.Config{
		Timeout: time.Duration(cfg.Health.Timeout) * time.Millisecond,
		Clock:   o.clock,
		Groups:  cfg.Health.Groups,
	})
	if err := a.registerIndicators(); err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		registry, err := metrics.NewRegistry(metrics.Config{
			ServiceName: "actuator",
			Exporter:    cfg.Metrics.Exporter,
		})
		if err != nil {
			return nil, err
		}
		a.registry = registry

		a.requests, err = registry.Counter("actuator_requests",
			"Requests handled by the monitoring endpoints")
		if err != nil {
			return nil, err
		}
		a.durations, err = registry.Histogram("actuator_request_duration_ms",
			"Monitoring endpoint latency", "ms")
		if err != nil {
			return nil, err
		}
	}

	a.router = router.New(router.Config{
		BasePath: cfg.BasePath,
		Logger:   a.logger,
	})
	a.registerRoutes()
	a.server = router.NewServer(a.router, a.logger)

	return a, nil
}

// registerIndicators installs the enabled built-ins and the caller's
// custom registrations, in that order.
func (a *Actuator) registerIndicators() error {
	if a.cfg.Health.Indicators.DiskSpace.Enabled {
		ds := health.NewDiskSpace(health.DiskSpaceConfig{
			Threshold: a.cfg.Health.Indicators.DiskSpace.Threshold,
			Path:      a.cfg.Health.Indicators.DiskSpace.Path,
		})
		if err := a.engine.AddIndicator(health.Registration{Indicator: ds}); err != nil {
			return err
		}
	}
	if a.cfg.Health.Indicators.Process.Enabled {
		if err := a.engine.AddIndicator(health.Registration{Indicator: health.NewProcess()}); err != nil {
			return err
		}
	}
	for _, reg := range a.cfg.Health.Custom {
		if err := a.engine.AddIndicator(reg); err != nil {
			return fmt.Errorf("actuator: custom indicator %q: %w", reg.Name, err)
		}
	}
	return nil
}

// Engine returns the health engine for runtime registration.
func (a *Actuator) Engine() *health.Engine {
	return a.engine
}

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (a *Actuator) Metrics() *metrics.Registry {
	return a.registry
}

// Handler returns the subsystem as an http.Handler, for hosts that prefer
// mounting it on their own server instead of calling Start.
func (a *Actuator) Handler() http.Handler {
	return a.router
}

// AddIndicator registers an indicator at runtime.
func (a *Actuator) AddIndicator(reg health.Registration) error {
	return a.engine.AddIndicator(reg)
}

// RemoveIndicator removes an indicator at runtime, reporting whether it
// was present.
func (a *Actuator) RemoveIndicator(name string) bool {
	return a.engine.RemoveIndicator(name)
}

// Start binds the subsystem's own listener. Port 0 requests an ephemeral
// port; the bound port is returned.
func (a *Actuator) Start(port int) (int, error) {
	return a.server.Start(port)
}

// Port returns the bound port, or 0 before Start.
func (a *Actuator) Port() int {
	return a.server.Port()
}

// Stop drains in-flight requests until the context expires, then shuts
// down the metrics registry.
func (a *Actuator) Stop(ctx context.Context) error {
	err := a.server.Stop(ctx)
	if a.registry != nil {
		if merr := a.registry.Shutdown(ctx); err == nil {
			err = merr
		}
	}
	return err
}

// Close stops serving without draining.
func (a *Actuator) Close() error {
	return a.server.Close()
}

// collect runs a health collection with the configured default mode unless
// the request overrides it.
func (a *Actuator) collect(ctx context.Context, override string) health.Response {
	mode := health.Mode(a.cfg.Health.ShowDetails)
	if override != "" {
		mode = health.Mode(override)
	}
	return a.engine.Collect(ctx, mode)
}
