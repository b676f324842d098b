package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertNoRequests fails the test if the fake Jira was called at all.
func (f *FakeJira) AssertNoRequests(t *testing.T) {
	t.Helper()
	if reqs := f.Requests(); len(reqs) > 0 {
		t.Errorf("expected no requests to Jira, got %d: %+v", len(reqs), reqs)
	}
}

// AssertRequestCount fails the test unless exactly n requests were received.
func (f *FakeJira) AssertRequestCount(t *testing.T, n int) {
	t.Helper()
	if got := f.RequestCount(); got != n {
		t.Errorf("expected %d requests to Jira, got %d: %+v", n, got, f.Requests())
	}
}

// LastRequest returns the most recent request, failing if there is none.
func (f *FakeJira) LastRequest(t *testing.T) Request {
	t.Helper()
	reqs := f.Requests()
	if len(reqs) == 0 {
		t.Fatalf("expected a request to Jira, got none")
	}
	return reqs[len(reqs)-1]
}

// Fields returns the "fields" object of a request body.
func (r Request) Fields(t *testing.T) map[string]interface{} {
	t.Helper()
	fields, ok := r.Body["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("request %s %s has no fields object: %+v", r.Method, r.Path, r.Body)
	}
	return fields
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(path, substr string) {
	w.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		w.t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", path, substr, data)
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a result list has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
