package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config configures a metrics Registry.
type Config struct {
	// ServiceName names the instrumented service in exported metrics.
	ServiceName string

	// Exporter selects how metrics leave the process: "prometheus" (pull,
	// scrape handler), "stdout" (periodic dump) or "none". Default: "none".
	Exporter string
}

// Valid exporters.
var validExporters = map[string]bool{
	"prometheus": true,
	"stdout":     true,
	"none":       true,
	"":           true,
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if !validExporters[c.Exporter] {
		return fmt.Errorf("metrics: unknown exporter: %q", c.Exporter)
	}
	return nil
}

// Registry is a counter/gauge/histogram wrapper over an OpenTelemetry
// meter. Instruments are cached by name, so asking twice for the same
// counter returns the same instrument. Construction is explicit — there is
// no process-wide registry, and a test can build and shut down as many
// instances as it likes.
type Registry struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter
	handler  http.Handler

	mu         sync.Mutex
	counters   map[string]Counter
	gauges     map[string]Gauge
	histograms map[string]Histogram
}

// NewRegistry creates a metrics registry with the configured exporter.
func NewRegistry(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "actuator"
	}

	reader, handler, err := newReader(cfg.Exporter)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	return &Registry{
		provider:   provider,
		meter:      provider.Meter(cfg.ServiceName),
		handler:    handler,
		counters:   make(map[string]Counter),
		gauges:     make(map[string]Gauge),
		histograms: make(map[string]Histogram),
	}, nil
}

// Handler returns the scrape handler for pull exporters, or nil when the
// configured exporter has nothing to serve.
func (r *Registry) Handler() http.Handler {
	return r.handler
}

// Meter exposes the underlying meter for callers that need instruments the
// wrapper does not cover.
func (r *Registry) Meter() metric.Meter {
	return r.meter
}

// Shutdown flushes and stops the meter provider.
func (r *Registry) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

// Counter returns the named monotonic counter, creating it on first use.
func (r *Registry) Counter(name, description string) (Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[name]; ok {
		return c, nil
	}

	inst, err := r.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return Counter{}, fmt.Errorf("metrics: create counter %q: %w", name, err)
	}
	c := Counter{inst: inst}
	r.counters[name] = c
	return c, nil
}

// Gauge returns the named gauge, creating it on first use.
func (r *Registry) Gauge(name, description string) (Gauge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[name]; ok {
		return g, nil
	}

	inst, err := r.meter.Float64Gauge(name, metric.WithDescription(description))
	if err != nil {
		return Gauge{}, fmt.Errorf("metrics: create gauge %q: %w", name, err)
	}
	g := Gauge{inst: inst}
	r.gauges[name] = g
	return g, nil
}

// Histogram returns the named histogram, creating it on first use.
func (r *Registry) Histogram(name, description, unit string) (Histogram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[name]; ok {
		return h, nil
	}

	inst, err := r.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return Histogram{}, fmt.Errorf("metrics: create histogram %q: %w", name, err)
	}
	h := Histogram{inst: inst}
	r.histograms[name] = h
	return h, nil
}

// Counter is a monotonically increasing count.
type Counter struct {
	inst metric.Int64Counter
}

// Inc adds one.
func (c Counter) Inc(ctx context.Context, labels ...attribute.KeyValue) {
	c.Add(ctx, 1, labels...)
}

// Add adds n.
func (c Counter) Add(ctx context.Context, n int64, labels ...attribute.KeyValue) {
	if c.inst == nil {
		return
	}
	c.inst.Add(ctx, n, metric.WithAttributes(labels...))
}

// Gauge is a value that can go up and down.
type Gauge struct {
	inst metric.Float64Gauge
}

// Set records the current value.
func (g Gauge) Set(ctx context.Context, v float64, labels ...attribute.KeyValue) {
	if g.inst == nil {
		return
	}
	g.inst.Record(ctx, v, metric.WithAttributes(labels...))
}

// Histogram is a distribution of observed values.
type Histogram struct {
	inst metric.Float64Histogram
}

// Observe records one value.
func (h Histogram) Observe(ctx context.Context, v float64, labels ...attribute.KeyValue) {
	if h.inst == nil {
		return
	}
	h.inst.Record(ctx, v, metric.WithAttributes(labels...))
}

// Label builds a string metric label.
func Label(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// newReader builds the sdk reader for an exporter name, plus the scrape
// handler when the exporter is pull-based.
func newReader(name string) (sdkmetric.Reader, http.Handler, error) {
	switch name {
	case "prometheus":
		promReg := promclient.NewRegistry()
		exp, err := otelprom.New(otelprom.WithRegisterer(promReg))
		if err != nil {
			return nil, nil, fmt.Errorf("metrics: create prometheus exporter: %w", err)
		}
		return exp, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}), nil

	case "stdout":
		exp, err := newStdoutExporter()
		if err != nil {
			return nil, nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil, nil

	case "none", "":
		return sdkmetric.NewManualReader(), nil, nil

	default:
		return nil, nil, fmt.Errorf("metrics: unknown exporter: %q", name)
	}
}
