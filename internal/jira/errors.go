package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const maxErrorBody = 500

// ErrorResponse is the error body Jira returns for failed requests.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode  int
	Method      string
	Path        string
	Messages    []string
	FieldErrors map[string]string
	Body        string

	baseURL string
}

func (c *Client) apiError(method, path string, resp *response) *APIError {
	e := &APIError{
		StatusCode: resp.status,
		Method:     method,
		Path:       path,
		Body:       string(resp.body),
		baseURL:    c.baseURL,
	}
	var er ErrorResponse
	if json.Unmarshal(resp.body, &er) == nil {
		e.Messages = er.ErrorMessages
		e.FieldErrors = er.Errors
	}
	return e
}

func (e *APIError) Error() string {
	var parts []string
	parts = append(parts, e.Messages...)

	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+e.FieldErrors[k])
	}

	detail := strings.Join(parts, "; ")
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody] + "..."
		}
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("jira API error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, detail)
}

// Suggestion is shown alongside the error in CLI output.
func (e *APIError) Suggestion() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Sprintf("Authentication failed: check the token for %s (set email for Jira Cloud basic auth)", e.baseURL)
	case http.StatusForbidden:
		return "The token is valid but lacks permission for this operation"
	case http.StatusNotFound:
		return "Check the issue key or endpoint path"
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return "Jira is throttling requests; try again shortly"
	}
	if len(e.FieldErrors) > 0 {
		return "Run 'jirahhh fields --project KEY' to check field ids and required fields"
	}
	return ""
}

// Details is included in JSON error output.
func (e *APIError) Details() map[string]interface{} {
	d := map[string]interface{}{
		"status": e.StatusCode,
		"method": e.Method,
		"path":   e.Path,
	}
	if len(e.Messages) > 0 {
		d["messages"] = e.Messages
	}
	if len(e.FieldErrors) > 0 {
		d["field_errors"] = e.FieldErrors
	}
	return d
}
