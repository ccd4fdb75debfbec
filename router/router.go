package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opskit/actuator/logging"
)

// Handler processes one matched request. A returned error (or a panic) is
// converted into a generic 500 response; it never crashes the listener.
type Handler func(res *Response, req *Request) error

// Config configures a Router.
type Config struct {
	// BasePath is the prefix under which all routes are mounted.
	// Requests outside it are answered 404 without scanning the route
	// table. Default: "/actuator".
	BasePath string

	// Logger receives handler faults. Default: discard.
	Logger logging.Logger
}

// Router dispatches HTTP requests to an ordered route table. Routes are
// matched first-registered-first-wins with no specificity ranking; the
// table is meant to be populated at setup time, before serving, and is
// read without locking afterwards.
type Router struct {
	basePath string
	logger   logging.Logger
	routes   []*route
}

// route is one compiled method+pattern entry.
type route struct {
	method   string
	pattern  string
	segments []segment
	handler  Handler
}

// segment is one compiled path element: either a literal or a single-
// segment capture.
type segment struct {
	literal string
	param   string // non-empty for :name segments
}

// New creates a new Router.
func New(config ...Config) *Router {
	cfg := Config{BasePath: "/actuator"}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.BasePath == "" {
			cfg.BasePath = "/actuator"
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Router{
		basePath: strings.TrimSuffix(cfg.BasePath, "/"),
		logger:   cfg.Logger,
	}
}

// BasePath returns the configured base path.
func (r *Router) BasePath() string {
	return r.basePath
}

// Handle compiles a path pattern and appends it to the route table.
// Segments prefixed ":" become capturing wildcards matching exactly one
// path segment; captured values are percent-decoded before the handler
// sees them.
func (r *Router) Handle(method, pattern string, handler Handler) {
	r.routes = append(r.routes, &route{
		method:   strings.ToUpper(method),
		pattern:  pattern,
		segments: compile(pattern),
		handler:  handler,
	})
}

func compile(pattern string) []segment {
	parts := splitPath(pattern)
	segments := make([]segment, len(parts))
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			segments[i] = segment{param: part[1:]}
		} else {
			segments[i] = segment{literal: part}
		}
	}
	return segments
}

// splitPath breaks a path into its segments, treating "" and "/" as the
// empty root path.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// match tests a route against a concrete path, extracting and decoding
// named parameters in pattern order. Undecodable parameter values fail the
// match.
func (rt *route) match(method, path string) (map[string]string, bool) {
	if rt.method != method {
		return nil, false
	}

	parts := splitPath(path)
	if len(parts) != len(rt.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range rt.segments {
		if seg.param != "" {
			value, err := url.PathUnescape(parts[i])
			if err != nil {
				return nil, false
			}
			params[seg.param] = value
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, hr *http.Request) {
	res := newResponse(w)
	requestID := uuid.NewString()

	// Match on the escaped form so parameter values are decoded exactly
	// once, by the router.
	path := hr.URL.EscapedPath()

	rel, ok := r.stripBasePath(path)
	if !ok {
		writeNotFound(res, path)
		return
	}

	for _, rt := range r.routes {
		params, matched := rt.match(hr.Method, rel)
		if !matched {
			continue
		}

		req := &Request{
			Method: hr.Method,
			Path:   rel,
			Params: params,
			Query:  flattenQuery(hr.URL.Query()),
			ID:     requestID,
			raw:    hr,
		}

		r.invoke(rt, res, req)
		return
	}

	writeNotFound(res, path)
}

// invoke runs one handler, converting panics and returned errors into a
// generic 500 body carrying the request id.
func (r *Router) invoke(rt *route, res *Response, req *Request) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(req.Context(), "handler panic",
				logging.F("request_id", req.ID),
				logging.F("pattern", rt.pattern),
				logging.F("panic", fmt.Sprintf("%v", rec)),
			)
			writeInternalError(res, req.ID)
		}
	}()

	if err := rt.handler(res, req); err != nil {
		r.logger.Error(req.Context(), "handler error",
			logging.F("request_id", req.ID),
			logging.F("pattern", rt.pattern),
			logging.F("error", err.Error()),
		)
		writeInternalError(res, req.ID)
	}
}

// stripBasePath removes the configured base path prefix, reporting false
// when the request path lies outside it.
func (r *Router) stripBasePath(path string) (string, bool) {
	if r.basePath == "" {
		return path, true
	}
	if !strings.HasPrefix(path, r.basePath) {
		return "", false
	}
	rel := path[len(r.basePath):]
	if rel != "" && !strings.HasPrefix(rel, "/") {
		// "/actuatorfoo" is not under "/actuator"
		return "", false
	}
	return rel, true
}

// flattenQuery reduces a url.Values to a flat string map, keeping the
// first value of each key.
func flattenQuery(values url.Values) map[string]string {
	query := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			query[key] = vals[0]
		}
	}
	return query
}

func writeNotFound(res *Response, path string) {
	res.Status(http.StatusNotFound).JSON(map[string]any{
		"error":     "Not Found",
		"message":   fmt.Sprintf("no route for %s", path),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeInternalError(res *Response, requestID string) {
	if res.Done() {
		return
	}
	res.reset()
	res.Status(http.StatusInternalServerError).JSON(map[string]any{
		"error":      "Internal Server Error",
		"request_id": requestID,
	})
}
