package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, r *Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return body
}

func TestRouter_ParamExtraction(t *testing.T) {
	r := New()

	var seen string
	r.Handle(http.MethodGet, "/items/:id", func(res *Response, req *Request) error {
		seen = req.Params["id"]
		res.JSON(map[string]string{"id": seen})
		return nil
	})

	rec := get(t, r, "/actuator/items/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen != "42" {
		t.Errorf("params.id = %q, want '42'", seen)
	}
}

func TestRouter_ParamDecoding(t *testing.T) {
	r := New()

	var seen string
	r.Handle(http.MethodGet, "/items/:id", func(res *Response, req *Request) error {
		seen = req.Params["id"]
		res.Text("ok")
		return nil
	})

	get(t, r, "/actuator/items/a%20b")
	if seen != "a b" {
		t.Errorf("params.id = %q, want 'a b'", seen)
	}
}

func TestRouter_ParamMatchesSingleSegmentOnly(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/items/:id", func(res *Response, req *Request) error {
		res.Text("ok")
		return nil
	})

	if rec := get(t, r, "/actuator/items/1/extra"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for extra segment", rec.Code)
	}
	if rec := get(t, r, "/actuator/items"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for missing segment", rec.Code)
	}
}

func TestRouter_FirstRegisteredWins(t *testing.T) {
	r := New()

	r.Handle(http.MethodGet, "/things/:name", func(res *Response, req *Request) error {
		res.Text("param")
		return nil
	})
	r.Handle(http.MethodGet, "/things/special", func(res *Response, req *Request) error {
		res.Text("literal")
		return nil
	})

	rec := get(t, r, "/actuator/things/special")
	if rec.Body.String() != "param" {
		t.Errorf("body = %q, want 'param' (first registered route must win)", rec.Body.String())
	}
}

func TestRouter_MethodMismatch(t *testing.T) {
	r := New()
	r.Handle(http.MethodPost, "/submit", func(res *Response, req *Request) error {
		res.Text("ok")
		return nil
	})

	if rec := get(t, r, "/actuator/submit"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for wrong method", rec.Code)
	}
}

func TestRouter_NotFoundBody(t *testing.T) {
	r := New()

	rec := get(t, r, "/actuator/nowhere")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	body := decodeJSON(t, rec)
	for _, key := range []string{"error", "message", "timestamp"} {
		if _, ok := body[key]; !ok {
			t.Errorf("404 body missing %q: %v", key, body)
		}
	}
}

func TestRouter_OutsideBasePath(t *testing.T) {
	r := New(Config{BasePath: "/actuator"})
	r.Handle(http.MethodGet, "/health", func(res *Response, req *Request) error {
		res.Text("ok")
		return nil
	})

	if rec := get(t, r, "/health"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 outside base path", rec.Code)
	}
	if rec := get(t, r, "/actuatorhealth"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for prefix-like path", rec.Code)
	}
	if rec := get(t, r, "/actuator/health"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 under base path", rec.Code)
	}
}

func TestRouter_RootRoute(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/", func(res *Response, req *Request) error {
		res.Text("root")
		return nil
	})

	// Both the bare base path and its trailing-slash form hit the root
	// route.
	if rec := get(t, r, "/actuator"); rec.Code != http.StatusOK {
		t.Errorf("bare base path status = %d, want 200", rec.Code)
	}
	if rec := get(t, r, "/actuator/"); rec.Code != http.StatusOK {
		t.Errorf("trailing slash status = %d, want 200", rec.Code)
	}
}

func TestRouter_QueryParsing(t *testing.T) {
	r := New()

	var query map[string]string
	r.Handle(http.MethodGet, "/q", func(res *Response, req *Request) error {
		query = req.Query
		res.Text("ok")
		return nil
	})

	get(t, r, "/actuator/q?showDetails=always&x=1")
	if query["showDetails"] != "always" || query["x"] != "1" {
		t.Errorf("query = %v", query)
	}
}

func TestRouter_HandlerErrorBecomes500(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/fail", func(res *Response, req *Request) error {
		return errors.New("kaput")
	})

	rec := get(t, r, "/actuator/fail")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["error"] == "" {
		t.Errorf("500 body missing error: %v", body)
	}
	if strings.Contains(rec.Body.String(), "kaput") {
		t.Errorf("500 body leaks the internal error: %q", rec.Body.String())
	}
}

func TestRouter_HandlerPanicBecomes500(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/explode", func(res *Response, req *Request) error {
		panic("boom")
	})

	rec := get(t, r, "/actuator/explode")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRouter_ErrorAfterWriteDoesNotOverwrite(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/late", func(res *Response, req *Request) error {
		res.Text("already sent")
		return errors.New("too late")
	})

	rec := get(t, r, "/actuator/late")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (response already terminated)", rec.Code)
	}
	if rec.Body.String() != "already sent" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestResponse_SecondTerminalCallIsNoOp(t *testing.T) {
	rec := httptest.NewRecorder()
	res := newResponse(rec)

	res.Status(http.StatusTeapot).Text("first")
	res.Status(http.StatusOK).JSON(map[string]string{"second": "nope"})

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if rec.Body.String() != "first" {
		t.Errorf("body = %q, want 'first'", rec.Body.String())
	}
}

func TestResponse_DefaultStatusIs200(t *testing.T) {
	rec := httptest.NewRecorder()
	newResponse(rec).JSON(map[string]string{"ok": "yes"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
