package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aidanlsb/jirahhh/internal/payload"
)

const (
	apiPrefix        = "/rest/api/2"
	searchPageSize   = 100
	defaultMaxResult = 50
)

// DefaultSearchFields are requested when a search names no fields.
var DefaultSearchFields = []string{"summary", "status", "issuetype", "assignee"}

func issuePath(key string) string {
	return apiPrefix + "/issue/" + url.PathEscape(key)
}

// CreateIssue creates an issue from body, usually a *payload.Payload.
func (c *Client) CreateIssue(ctx context.Context, body any) (*IssueRef, error) {
	var ref IssueRef
	if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/issue", nil, body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// UpdateIssue applies body to the issue and returns its identity.
func (c *Client) UpdateIssue(ctx context.Context, key string, body any) (*IssueRef, error) {
	if err := c.doJSON(ctx, http.MethodPut, issuePath(key), nil, body, nil); err != nil {
		return nil, err
	}
	var issue Issue
	if err := c.getJSON(ctx, issuePath(key), url.Values{"fields": {"summary"}}, &issue); err != nil {
		return nil, err
	}
	ref := issue.Ref()
	return &ref, nil
}

// GetIssue fetches an issue. No fields means all fields.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (*Issue, error) {
	q := url.Values{"fields": {"*all"}}
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}
	var issue Issue
	if err := c.getJSON(ctx, issuePath(key), q, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Search runs jql and collects up to maxResults issues, paging as needed.
func (c *Client) Search(ctx context.Context, jql string, fields []string, maxResults int) (*SearchResult, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResult
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	result := &SearchResult{}
	for len(result.Issues) < maxResults {
		want := maxResults - len(result.Issues)
		if want > searchPageSize {
			want = searchPageSize
		}
		req := searchRequest{JQL: jql, StartAt: len(result.Issues), MaxResults: want, Fields: fields}

		var page searchPage
		if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/search", nil, req, &page); err != nil {
			return nil, err
		}
		result.Total = page.Total
		result.Issues = append(result.Issues, page.Issues...)

		if len(page.Issues) == 0 || len(result.Issues) >= page.Total {
			break
		}
	}
	if len(result.Issues) > maxResults {
		result.Issues = result.Issues[:maxResults]
	}
	return result, nil
}

// Fields lists every field on the instance.
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.getJSON(ctx, apiPrefix+"/field", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

type createMetaResponse struct {
	Projects []struct {
		Key        string `json:"key"`
		IssueTypes []struct {
			Name   string               `json:"name"`
			Fields map[string]FieldMeta `json:"fields"`
		} `json:"issuetypes"`
	} `json:"projects"`
}

// CreateMeta returns create metadata for the first issue type matching
// issueType in project, keyed by field id. An empty issueType takes the first type.
func (c *Client) CreateMeta(ctx context.Context, project, issueType string) (map[string]FieldMeta, error) {
	q := url.Values{
		"projectKeys": {project},
		"expand":      {"projects.issuetypes.fields"},
	}
	if issueType != "" {
		q.Set("issuetypeNames", issueType)
	}

	var meta createMetaResponse
	if err := c.getJSON(ctx, apiPrefix+"/issue/createmeta", q, &meta); err != nil {
		return nil, err
	}
	if len(meta.Projects) == 0 || len(meta.Projects[0].IssueTypes) == 0 {
		return map[string]FieldMeta{}, nil
	}
	return meta.Projects[0].IssueTypes[0].Fields, nil
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, key string, body any) (*Comment, error) {
	var comment Comment
	if err := c.doJSON(ctx, http.MethodPost, issuePath(key)+"/comment", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Do sends a raw request. A JSON response is decoded as-is; anything else is
// returned as a RawResponse.
func (c *Client) Do(ctx context.Context, req *payload.RawRequest) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	path, rawQuery, _ := strings.Cut(req.Path, "?")
	var query url.Values
	if rawQuery != "" {
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, fmt.Errorf("invalid query string: %w", err)
		}
		query = q
	}

	var body []byte
	if len(req.Body) > 0 {
		body = req.Body
	}
	resp, err := c.send(ctx, req.Method, path, query, body)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(resp.body, &decoded); err != nil {
		return &RawResponse{StatusCode: resp.status, Text: string(resp.body)}, nil
	}
	return decoded, nil
}
