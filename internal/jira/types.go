package jira

// IssueRef identifies an issue.
type IssueRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Issue is an issue with its raw field values, keyed by field id.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Self   string         `json:"self"`
	Fields map[string]any `json:"fields"`
}

// Ref returns the issue's identity.
func (i *Issue) Ref() IssueRef { return IssueRef{ID: i.ID, Key: i.Key, Self: i.Self} }

// Text returns a string field, or "" when absent or not a string.
func (i *Issue) Text(field string) string {
	s, _ := i.Fields[field].(string)
	return s
}

// Named returns the "name" of an object field such as status or priority.
func (i *Issue) Named(field string) string {
	return objectString(i.Fields[field], "name")
}

// DisplayName returns the display name of a user field such as assignee.
func (i *Issue) DisplayName(field string) string {
	return objectString(i.Fields[field], "displayName")
}

func objectString(v any, key string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

// SearchResult is the result of a JQL search.
type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// Field describes a field known to the instance.
type Field struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Custom bool           `json:"custom"`
	Schema map[string]any `json:"schema,omitempty"`
}

// FieldMeta is per-field create metadata for a project and issue type.
type FieldMeta struct {
	Name       string   `json:"name"`
	Required   bool     `json:"required"`
	Operations []string `json:"operations"`
}

// Comment is a created comment.
type Comment struct {
	ID      string `json:"id"`
	Self    string `json:"self"`
	Created string `json:"created"`
}

// RawResponse is returned by Do when the body is not JSON.
type RawResponse struct {
	StatusCode int    `json:"status_code"`
	Text       string `json:"text"`
}
