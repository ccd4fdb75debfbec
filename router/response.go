package router

import (
	"encoding/json"
	"net/http"
)

// Response wraps an http.ResponseWriter with a small terminal API. Status
// is chainable; JSON, Text and Bytes each terminate the response exactly
// once — after the first terminal call the writer latches and further
// terminal calls are no-ops, so a confused handler cannot corrupt the wire.
type Response struct {
	w      http.ResponseWriter
	status int
	done   bool
}

func newResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Status sets the response status code. It returns the receiver so calls
// can chain into a terminal method.
func (r *Response) Status(code int) *Response {
	r.status = code
	return r
}

// JSON terminates the response with a JSON body.
func (r *Response) JSON(v any) {
	if r.done {
		return
	}
	r.done = true

	r.w.Header().Set("Content-Type", "application/json")
	r.w.WriteHeader(r.code())
	_ = json.NewEncoder(r.w).Encode(v)
}

// Text terminates the response with a plain-text body.
func (r *Response) Text(body string) {
	if r.done {
		return
	}
	r.done = true

	r.w.Header().Set("Content-Type", "text/plain")
	r.w.WriteHeader(r.code())
	_, _ = r.w.Write([]byte(body))
}

// Bytes terminates the response with a raw body of the given content type.
func (r *Response) Bytes(contentType string, body []byte) {
	if r.done {
		return
	}
	r.done = true

	r.w.Header().Set("Content-Type", contentType)
	r.w.WriteHeader(r.code())
	_, _ = r.w.Write(body)
}

// Done reports whether a terminal method has already run.
func (r *Response) Done() bool {
	return r.done
}

func (r *Response) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// reset clears a pending (unwritten) status so an error body can replace
// whatever the handler was about to send.
func (r *Response) reset() {
	r.status = 0
}
