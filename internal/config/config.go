// Package config handles jirahhh configuration: the config file with its named
// environments, ambient settings from the process environment, and resolution
// of the environment profile used for a command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/jirahhh/internal/fieldmap"
)

// Config represents the jirahhh configuration file.
//
// Every top-level key that is not one of the reserved keys below names an
// environment.
type Config struct {
	// DefaultEnv is used when no environment is given on the command line.
	DefaultEnv string

	// IPv4Only forces IPv4 connections (JIRAHHH_IPV4_ONLY overrides it).
	IPv4Only bool

	// Converter selects the markdown conversion backend.
	Converter ConverterConfig

	// CustomFields maps field aliases to identifiers for every environment.
	CustomFields map[string]string

	// SecurityLevels maps security level aliases to level ids for every environment.
	SecurityLevels map[string]string

	// Environments maps environment names to connection settings.
	Environments map[string]*Environment

	// Path is the file the config was loaded from, empty if none was found.
	Path string
}

// ConverterConfig selects and configures the markdown converter.
type ConverterConfig struct {
	// Backend is pandoc (default), builtin or auto.
	Backend string `yaml:"backend,omitempty" toml:"backend,omitempty" json:"backend,omitempty"`

	// PandocPath overrides the pandoc executable.
	PandocPath string `yaml:"pandoc_path,omitempty" toml:"pandoc_path,omitempty" json:"pandoc_path,omitempty"`
}

// Environment is one named Jira deployment.
type Environment struct {
	URL   string `yaml:"url" toml:"url" json:"url"`
	Token string `yaml:"token,omitempty" toml:"token,omitempty" json:"token,omitempty"`

	// Proxy is an optional HTTP(S) proxy URL.
	Proxy string `yaml:"proxy,omitempty" toml:"proxy,omitempty" json:"proxy,omitempty"`

	// Email switches authentication from Bearer to Basic (email + API token).
	Email string `yaml:"email,omitempty" toml:"email,omitempty" json:"email,omitempty"`

	// CustomFields and SecurityLevels override the shared mappings.
	CustomFields   map[string]string `yaml:"custom_fields,omitempty" toml:"custom_fields,omitempty" json:"custom_fields,omitempty"`
	SecurityLevels map[string]string `yaml:"security_levels,omitempty" toml:"security_levels,omitempty" json:"security_levels,omitempty"`
}

// Reserved top-level keys.
const (
	keyDefaultEnv     = "default_env"
	keyIPv4Only       = "ipv4_only"
	keyConverter      = "converter"
	keyCustomFields   = "custom_fields"
	keySecurityLevels = "security_levels"
)

// IsReservedKey reports whether name cannot be used as an environment name.
func IsReservedKey(name string) bool {
	switch name {
	case keyDefaultEnv, keyIPv4Only, keyConverter, keyCustomFields, keySecurityLevels:
		return true
	}
	return false
}

func newConfig() *Config {
	return &Config{
		CustomFields:   map[string]string{},
		SecurityLevels: map[string]string{},
		Environments:   map[string]*Environment{},
	}
}

// EnvironmentNames returns the configured environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldMap returns the alias mappings for env: the shared sections overlaid
// with the environment's own sections.
func (c *Config) FieldMap(env string) fieldmap.FieldMap {
	layers := []fieldmap.Layer{{Fields: c.CustomFields, SecurityLevels: c.SecurityLevels}}
	if e, ok := c.Environments[env]; ok && e != nil {
		layers = append(layers, fieldmap.Layer{Fields: e.CustomFields, SecurityLevels: e.SecurityLevels})
	}
	return fieldmap.New(env, layers...)
}

// Load loads the config from explicit, or from the first existing search path
// when explicit is empty. A missing file yields an empty config.
func Load(explicit string) (*Config, error) {
	path := ResolveConfigPath(explicit)
	if path == "" {
		return newConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := newConfig()
		cfg.Path = path
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. The format follows the
// extension: .toml is TOML, anything else is YAML.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = parseTOML(data)
	} else {
		cfg, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := newConfig()
	for key, node := range raw {
		node := node
		var err error
		switch key {
		case keyDefaultEnv:
			err = node.Decode(&cfg.DefaultEnv)
		case keyIPv4Only:
			err = node.Decode(&cfg.IPv4Only)
		case keyConverter:
			err = node.Decode(&cfg.Converter)
		case keyCustomFields:
			err = node.Decode(&cfg.CustomFields)
		case keySecurityLevels:
			err = node.Decode(&cfg.SecurityLevels)
		default:
			if node.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("top-level key '%s' must be an environment mapping (url, token, ...)", key)
			}
			env := &Environment{}
			err = node.Decode(env)
			cfg.Environments[key] = env
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	cfg := newConfig()
	for key, prim := range raw {
		switch key {
		case keyDefaultEnv:
			err = md.PrimitiveDecode(prim, &cfg.DefaultEnv)
		case keyIPv4Only:
			err = md.PrimitiveDecode(prim, &cfg.IPv4Only)
		case keyConverter:
			err = md.PrimitiveDecode(prim, &cfg.Converter)
		case keyCustomFields:
			err = md.PrimitiveDecode(prim, &cfg.CustomFields)
		case keySecurityLevels:
			err = md.PrimitiveDecode(prim, &cfg.SecurityLevels)
		default:
			env := &Environment{}
			if err = md.PrimitiveDecode(prim, env); err != nil {
				return nil, fmt.Errorf("top-level key '%s' must be an environment table: %w", key, err)
			}
			cfg.Environments[key] = env
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return cfg, nil
}

// DefaultPath returns the path `config init` writes to:
// ~/.config/jirahhh/config.yaml.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "jirahhh", "config.yaml")
	}
	return ".jira-config.yaml"
}

// SearchPaths returns the locations checked, in order, when no explicit config
// path is given.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "jirahhh")
		paths = append(paths,
			filepath.Join(dir, "config.yaml"),
			filepath.Join(dir, "config.yml"),
			filepath.Join(dir, "config.toml"),
		)
	}
	return append(paths, ".jira-config.yaml")
}

// ResolveConfigPath returns explicit when set, otherwise the first search path
// that exists, otherwise "".
func ResolveConfigPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
