package router

import (
	"context"
	"io"
	"net/http"
)

// Request is the view of an incoming HTTP request a Handler works with.
// Path is relative to the router's base path; Params holds decoded values
// for the pattern's :name segments; Query is the flattened query string.
type Request struct {
	Method string
	Path   string
	Params map[string]string
	Query  map[string]string

	// ID identifies this request in logs and error responses.
	ID string

	raw  *http.Request
	body []byte
	read bool
}

// Context returns the underlying request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// Body reads and caches the raw request body. Repeated calls return the
// same bytes.
func (r *Request) Body() ([]byte, error) {
	if r.read {
		return r.body, nil
	}
	body, err := io.ReadAll(r.raw.Body)
	if err != nil {
		return nil, err
	}
	r.body = body
	r.read = true
	return body, nil
}

// HTTPRequest returns the underlying *http.Request, for handlers that
// delegate to stock http.Handler implementations.
func (r *Request) HTTPRequest() *http.Request {
	return r.raw
}

// Header returns the value of a request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}
