// Package fieldmap maps symbolic field and security-level aliases onto the
// identifiers used by a specific Jira environment.
package fieldmap

import (
	"sort"
)

// Layer is one source of alias mappings, such as the shared section of the
// config file or an environment's own section.
type Layer struct {
	Fields         map[string]string
	SecurityLevels map[string]string
}

// FieldMap is an immutable set of alias mappings for one environment.
type FieldMap struct {
	env            string
	fields         map[string]string
	securityLevels map[string]string
}

// New builds the FieldMap for env. Later layers override earlier ones alias by alias.
func New(env string, layers ...Layer) FieldMap {
	m := FieldMap{
		env:            env,
		fields:         map[string]string{},
		securityLevels: map[string]string{},
	}
	for _, l := range layers {
		for alias, id := range l.Fields {
			m.fields[alias] = id
		}
		for alias, id := range l.SecurityLevels {
			m.securityLevels[alias] = id
		}
	}
	return m
}

// Env is the environment the map belongs to.
func (m FieldMap) Env() string { return m.env }

// Fields returns a copy of the alias to identifier mapping.
func (m FieldMap) Fields() map[string]string { return copyMap(m.fields) }

// SecurityLevels returns a copy of the security level mapping.
func (m FieldMap) SecurityLevels() map[string]string { return copyMap(m.securityLevels) }

// Field looks up a single field alias.
func (m FieldMap) Field(alias string) (string, bool) {
	id, ok := m.fields[alias]
	return id, ok
}

// ResolveFields replaces every alias key in aliased with its field identifier.
// If any alias is unknown, or two aliases name the same field, the whole
// resolution fails and nothing is returned.
func (m FieldMap) ResolveFields(aliased map[string]any) (map[string]any, error) {
	aliases := make([]string, 0, len(aliased))
	for alias := range aliased {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	resolved := make(map[string]any, len(aliased))
	owner := make(map[string]string, len(aliased))
	for _, alias := range aliases {
		id, ok := m.fields[alias]
		if !ok {
			return nil, &UnknownFieldAliasError{Alias: alias, Env: m.env, Known: sortedKeys(m.fields)}
		}
		if first, taken := owner[id]; taken {
			return nil, &DuplicateFieldError{ID: id, Aliases: []string{first, alias}, Env: m.env}
		}
		owner[id] = alias
		resolved[id] = aliased[alias]
	}
	return resolved, nil
}

// ResolveSecurityLevel returns the level identifier for alias.
func (m FieldMap) ResolveSecurityLevel(alias string) (string, error) {
	id, ok := m.securityLevels[alias]
	if !ok {
		return "", &UnknownSecurityLevelError{Alias: alias, Env: m.env, Known: sortedKeys(m.securityLevels)}
	}
	return id, nil
}

// DefaultSecurityLevelAlias is applied to new issues when no level is requested.
const DefaultSecurityLevelAlias = "default"

// DefaultSecurityLevel returns the level aliased "default", if configured.
func (m FieldMap) DefaultSecurityLevel() (string, bool) {
	id, ok := m.securityLevels[DefaultSecurityLevelAlias]
	return id, ok
}

// AliasFor finds the alias configured for a field identifier. When several
// aliases point at the same identifier the alphabetically first one wins.
func (m FieldMap) AliasFor(id string) (string, bool) {
	var found string
	for alias, fid := range m.fields {
		if fid != id {
			continue
		}
		if found == "" || alias < found {
			found = alias
		}
	}
	return found, found != ""
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys(in map[string]string) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
