package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkRouter_Match(b *testing.B) {
	r := New()
	noop := func(res *Response, req *Request) error {
		res.Text("ok")
		return nil
	}
	r.Handle(http.MethodGet, "/health", noop)
	r.Handle(http.MethodGet, "/health/:name", noop)
	r.Handle(http.MethodGet, "/metrics", noop)
	r.Handle(http.MethodGet, "/env", noop)

	req := httptest.NewRequest(http.MethodGet, "/actuator/health/diskSpace", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}
}
