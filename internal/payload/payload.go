// Package payload composes the request bodies sent to Jira from standard
// fields, resolved custom fields and already-resolved content.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aidanlsb/jirahhh/internal/fieldmap"
)

// Standard Jira field identifiers. These always win over a custom field that
// resolves to the same identifier.
const (
	FieldProject     = "project"
	FieldSummary     = "summary"
	FieldIssueType   = "issuetype"
	FieldDescription = "description"
	FieldSecurity    = "security"
)

// standardOrder is the order standard fields appear in a marshaled body.
var standardOrder = []string{FieldProject, FieldSummary, FieldIssueType, FieldDescription, FieldSecurity}

var standardFields = map[string]bool{
	FieldProject:     true,
	FieldSummary:     true,
	FieldIssueType:   true,
	FieldDescription: true,
	FieldSecurity:    true,
}

// IsStandardField reports whether id is one of the fields the assembler sets itself.
func IsStandardField(id string) bool { return standardFields[id] }

// WarnFieldShadowed is recorded when a custom field collides with a standard field.
const WarnFieldShadowed = "FIELD_SHADOWED"

// Warning is a non-fatal problem found while assembling.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Payload is a fully resolved issue request body.
type Payload struct {
	Fields   map[string]any
	Warnings []Warning
}

// MarshalJSON renders the body Jira expects: {"fields": {...}}, with the
// standard fields first and custom fields after them sorted by identifier.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"fields":{`)
	for i, id := range p.OrderedFieldIDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Fields[id])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// FieldIDs returns the field identifiers in the payload, sorted.
func (p *Payload) FieldIDs() []string {
	ids := make([]string, 0, len(p.Fields))
	for id := range p.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OrderedFieldIDs returns the standard field identifiers present in the
// payload in their fixed order, followed by the custom ones sorted.
func (p *Payload) OrderedFieldIDs() []string {
	ids := make([]string, 0, len(p.Fields))
	for _, id := range standardOrder {
		if _, ok := p.Fields[id]; ok {
			ids = append(ids, id)
		}
	}
	for _, id := range p.FieldIDs() {
		if !standardFields[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// ErrEmptyUpdate is returned when an update would change nothing.
var ErrEmptyUpdate = errors.New("nothing to update")

// ErrEmptyComment is returned for a comment with no body.
var ErrEmptyComment = errors.New("comment body is empty")

// CreateInput holds the parts of a new issue. Description is final wiki markup.
type CreateInput struct {
	Project     string
	Summary     string
	IssueType   string
	Description string

	// Security is a security level alias. Empty applies the environment's
	// "default" level when one is configured.
	Security string

	// Custom maps field aliases to values.
	Custom map[string]any
}

// UpdateInput holds the changes to an existing issue. Nil pointers are left untouched.
type UpdateInput struct {
	Summary     *string
	Description *string
	Custom      map[string]any
}

// Assembler builds payloads against one environment's field map.
type Assembler struct {
	Fields fieldmap.FieldMap
	Logger *slog.Logger
}

// NewAssembler returns an Assembler for fields.
func NewAssembler(fields fieldmap.FieldMap, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{Fields: fields, Logger: logger}
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Create assembles the body for a new issue. Nothing is returned unless every
// alias resolves.
func (a *Assembler) Create(in CreateInput) (*Payload, error) {
	var missing []string
	if strings.TrimSpace(in.Project) == "" {
		missing = append(missing, "project")
	}
	if strings.TrimSpace(in.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(in.IssueType) == "" {
		missing = append(missing, "issue type")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	custom, err := a.Fields.ResolveFields(in.Custom)
	if err != nil {
		return nil, err
	}

	standard := map[string]any{
		FieldProject:     map[string]any{"key": in.Project},
		FieldSummary:     in.Summary,
		FieldIssueType:   map[string]any{"name": in.IssueType},
		FieldDescription: in.Description,
	}

	switch {
	case in.Security != "":
		id, err := a.Fields.ResolveSecurityLevel(in.Security)
		if err != nil {
			return nil, err
		}
		standard[FieldSecurity] = map[string]any{"id": id}
	default:
		if id, ok := a.Fields.DefaultSecurityLevel(); ok {
			standard[FieldSecurity] = map[string]any{"id": id}
		}
	}

	p := a.merge(standard, custom)
	a.logger().Debug("assembled create payload", "env", a.Fields.Env(), "fields", p.FieldIDs())
	return p, nil
}

// Update assembles the body for an issue update.
func (a *Assembler) Update(in UpdateInput) (*Payload, error) {
	custom, err := a.Fields.ResolveFields(in.Custom)
	if err != nil {
		return nil, err
	}

	standard := map[string]any{}
	if in.Summary != nil {
		standard[FieldSummary] = *in.Summary
	}
	if in.Description != nil {
		standard[FieldDescription] = *in.Description
	}

	p := a.merge(standard, custom)
	if len(p.Fields) == 0 {
		return nil, ErrEmptyUpdate
	}
	a.logger().Debug("assembled update payload", "env", a.Fields.Env(), "fields", p.FieldIDs())
	return p, nil
}

// merge lays resolved custom fields under the standard fields. A custom field
// colliding with a standard one is dropped with a warning.
func (a *Assembler) merge(standard, custom map[string]any) *Payload {
	p := &Payload{Fields: make(map[string]any, len(standard)+len(custom))}

	ids := make([]string, 0, len(custom))
	for id := range custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, taken := standard[id]; taken || IsStandardField(id) {
			w := Warning{
				Code:    WarnFieldShadowed,
				Message: fmt.Sprintf("custom field '%s' collides with a standard field and was dropped", id),
				Field:   id,
			}
			p.Warnings = append(p.Warnings, w)
			a.logger().Debug(w.Message, "field", id, "env", a.Fields.Env())
			continue
		}
		p.Fields[id] = custom[id]
	}
	for id, v := range standard {
		p.Fields[id] = v
	}
	return p
}

// Comment builds the body for a new comment.
func (a *Assembler) Comment(body string) (map[string]any, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}
	return map[string]any{"body": body}, nil
}

// MissingFieldsError is returned when required create fields are empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Suggestion is shown alongside the error in CLI output.
func (e *MissingFieldsError) Suggestion() string {
	return "Provide --project, --summary and --type"
}
