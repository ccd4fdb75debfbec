package actuator

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/opskit/actuator/diag"
	"github.com/opskit/actuator/health"
	"github.com/opskit/actuator/metrics"
	"github.com/opskit/actuator/router"
)

func (a *Actuator) registerRoutes() {
	a.router.Handle(http.MethodGet, "/", a.instrument("discovery", a.handleDiscovery))
	a.router.Handle(http.MethodGet, "/health", a.instrument("health", a.handleHealth))
	a.router.Handle(http.MethodGet, "/health/:name", a.instrument("health_component", a.handleHealthComponent))

	if a.registry != nil && a.registry.Handler() != nil {
		a.router.Handle(http.MethodGet, "/metrics", a.instrument("metrics", a.handleMetrics))
	}

	if a.cfg.Diag.Enabled {
		a.router.Handle(http.MethodGet, "/env", a.instrument("env", a.handleEnv))
		a.router.Handle(http.MethodGet, "/heapdump", a.instrument("heapdump", a.handleHeapDump))
		a.router.Handle(http.MethodGet, "/threaddump", a.instrument("threaddump", a.handleThreadDump))
	}
}

// instrument counts and times an endpoint when metrics are enabled.
func (a *Actuator) instrument(name string, h router.Handler) router.Handler {
	if a.registry == nil {
		return h
	}
	return func(res *router.Response, req *router.Request) error {
		start := time.Now()
		err := h(res, req)

		label := metrics.Label("endpoint", name)
		a.requests.Inc(req.Context(), label)
		a.durations.Observe(req.Context(), float64(time.Since(start).Milliseconds()), label)
		return err
	}
}

// handleDiscovery answers the base path with a directory of sub-resource
// links.
func (a *Actuator) handleDiscovery(res *router.Response, req *router.Request) error {
	base := a.router.BasePath()

	links := map[string]any{
		"self":             link(base, false),
		"health":           link(base+"/health", false),
		"health-component": link(base+"/health/{name}", true),
	}
	if a.registry != nil && a.registry.Handler() != nil {
		links["metrics"] = link(base+"/metrics", false)
	}
	if a.cfg.Diag.Enabled {
		links["env"] = link(base+"/env", false)
		links["heapdump"] = link(base+"/heapdump", false)
		links["threaddump"] = link(base+"/threaddump", false)
	}

	res.JSON(map[string]any{"_links": links})
	return nil
}

func link(href string, templated bool) map[string]any {
	return map[string]any{"href": href, "templated": templated}
}

// handleHealth runs a full collection. Probes rely on the status code
// alone: 200 when the aggregate is UP, 503 otherwise.
func (a *Actuator) handleHealth(res *router.Response, req *router.Request) error {
	resp := a.collect(req.Context(), req.Query["showDetails"])

	code := http.StatusOK
	if resp.Status != health.StatusUp {
		code = http.StatusServiceUnavailable
	}
	res.Status(code).JSON(resp)
	return nil
}

// handleHealthComponent serves one indicator's result, falling back to
// group evaluation when the name matches a group instead.
func (a *Actuator) handleHealthComponent(res *router.Response, req *router.Request) error {
	name := req.Params["name"]
	ctx := req.Context()

	result, err := a.engine.Component(ctx, name)
	if err == nil {
		code := http.StatusOK
		if result.Status == health.StatusDown {
			code = http.StatusServiceUnavailable
		}
		res.Status(code).JSON(result)
		return nil
	}
	if !errors.Is(err, health.ErrIndicatorNotFound) {
		return err
	}

	group, err := a.engine.Group(ctx, name)
	if err == nil {
		code := http.StatusOK
		if group.Status != health.StatusUp {
			code = http.StatusServiceUnavailable
		}
		res.Status(code).JSON(group)
		return nil
	}
	if !errors.Is(err, health.ErrGroupNotFound) {
		return err
	}

	res.Status(http.StatusNotFound).JSON(map[string]any{
		"error":     "Not Found",
		"message":   "no indicator or group named " + name,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

func (a *Actuator) handleMetrics(res *router.Response, req *router.Request) error {
	rec := newCapture()
	a.registry.Handler().ServeHTTP(rec, req.HTTPRequest())
	res.Status(rec.status).Bytes(rec.contentType(), rec.body.Bytes())
	return nil
}

func (a *Actuator) handleEnv(res *router.Response, req *router.Request) error {
	res.JSON(diag.Env(a.cfg.Diag.EnvMasks))
	return nil
}

func (a *Actuator) handleHeapDump(res *router.Response, req *router.Request) error {
	var buf bytes.Buffer
	if err := diag.Heap(&buf); err != nil {
		return err
	}
	res.Bytes("application/octet-stream", buf.Bytes())
	return nil
}

func (a *Actuator) handleThreadDump(res *router.Response, req *router.Request) error {
	res.Text(string(diag.Stacks()))
	return nil
}

// capture buffers an inner handler's response so it can be replayed
// through the router's Response.
type capture struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCapture() *capture {
	return &capture{header: make(http.Header), status: http.StatusOK}
}

func (c *capture) Header() http.Header { return c.header }

func (c *capture) WriteHeader(status int) { c.status = status }

func (c *capture) Write(b []byte) (int, error) { return c.body.Write(b) }

func (c *capture) contentType() string {
	if ct := c.header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "text/plain"
}
