package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is one call the fake Jira received.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

// FakeJira is an httptest server that records every request and answers
// from a route table keyed by "METHOD /path".
type FakeJira struct {
	URL string

	t        *testing.T
	mu       sync.Mutex
	requests []Request
	routes   map[string]Route
}

// Route is a canned response.
type Route struct {
	Status int
	Body   string
}

// NewFakeJira starts a server that is closed when the test ends.
func NewFakeJira(t *testing.T) *FakeJira {
	t.Helper()
	f := &FakeJira{t: t, routes: map[string]Route{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// Handle registers the response for method and path.
func (f *FakeJira) Handle(method, path string, status int, body string) *FakeJira {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = Route{Status: status, Body: body}
	return f
}

func (f *FakeJira) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	route, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errorMessages":["no route for `+r.Method+" "+r.URL.Path+`"],"errors":{}}`)
		return
	}
	w.WriteHeader(route.Status)
	_, _ = io.WriteString(w, route.Body)
}

// Requests returns a copy of everything received so far.
func (f *FakeJira) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// RequestCount is len(Requests()).
func (f *FakeJira) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
