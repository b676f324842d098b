package fieldmap

import (
	"fmt"
	"strings"
)

// UnknownFieldAliasError is returned when a field alias has no mapping in the
// active environment.
type UnknownFieldAliasError struct {
	Alias string
	Env   string
	Known []string
}

func (e *UnknownFieldAliasError) Error() string {
	return fmt.Sprintf("unknown field alias '%s' in environment '%s'", e.Alias, e.Env)
}

// Suggestion is shown alongside the error in CLI output.
func (e *UnknownFieldAliasError) Suggestion() string {
	hint := fmt.Sprintf("Add '%s: customfield_NNNNN' under custom_fields (or %s.custom_fields) in the config file", e.Alias, e.Env)
	if len(e.Known) > 0 {
		hint += "; configured aliases: " + strings.Join(e.Known, ", ")
	}
	return hint
}

// Details is included in JSON error output.
func (e *UnknownFieldAliasError) Details() map[string]interface{} {
	return map[string]interface{}{
		"alias":         e.Alias,
		"env":           e.Env,
		"known_aliases": e.Known,
	}
}

// UnknownSecurityLevelError is returned when a security level alias has no
// mapping in the active environment.
type UnknownSecurityLevelError struct {
	Alias string
	Env   string
	Known []string
}

func (e *UnknownSecurityLevelError) Error() string {
	return fmt.Sprintf("unknown security level '%s' in environment '%s'", e.Alias, e.Env)
}

// Suggestion is shown alongside the error in CLI output.
func (e *UnknownSecurityLevelError) Suggestion() string {
	hint := fmt.Sprintf("Add '%s: \"<level id>\"' under security_levels in the config file", e.Alias)
	if len(e.Known) > 0 {
		hint += "; configured levels: " + strings.Join(e.Known, ", ")
	}
	return hint
}

// Details is included in JSON error output.
func (e *UnknownSecurityLevelError) Details() map[string]interface{} {
	return map[string]interface{}{
		"alias":        e.Alias,
		"env":          e.Env,
		"known_levels": e.Known,
	}
}

// DuplicateFieldError is returned when two aliases in one request resolve to
// the same field identifier.
type DuplicateFieldError struct {
	ID      string
	Aliases []string
	Env     string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("aliases '%s' both map to %s in environment '%s'",
		strings.Join(e.Aliases, "' and '"), e.ID, e.Env)
}

// Suggestion is shown alongside the error in CLI output.
func (e *DuplicateFieldError) Suggestion() string {
	return fmt.Sprintf("Set %s through only one of: %s", e.ID, strings.Join(e.Aliases, ", "))
}

// Details is included in JSON error output.
func (e *DuplicateFieldError) Details() map[string]interface{} {
	return map[string]interface{}{
		"field":   e.ID,
		"aliases": e.Aliases,
		"env":     e.Env,
	}
}
