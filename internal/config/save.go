package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aidanlsb/jirahhh/internal/atomicfile"
)

const configTemplate = `# jirahhh configuration
#
# Every top-level key except the reserved ones below names an environment.
# Select one with --env NAME, or set default_env.

# default_env: staging
# ipv4_only: false

# converter:
#   backend: pandoc        # pandoc | builtin | auto
#   pandoc_path: pandoc

# Field aliases shared by every environment (alias: field id).
custom_fields: {}
#   acceptance_criteria: customfield_10001

# Security level aliases. "default" is applied to new issues automatically.
security_levels: {}
#   default: "10000"

# staging:
#   url: https://jira-staging.example.com
#   token: <personal access token>
#   proxy: http://proxy.example.com:3128
#   email: me@example.com   # Basic auth for Jira Cloud
#   custom_fields:
#     epic_name: customfield_10011
#   security_levels:
#     confidential: "10101"
`

// Template returns the commented starter config written by `config init`.
func Template() string { return configTemplate }

// ErrConfigExists is returned by WriteTemplate when the target exists and
// force is false.
var ErrConfigExists = fmt.Errorf("config file already exists")

// WriteTemplate writes the starter config to path with owner-only permissions.
func WriteTemplate(path string, force bool) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := atomicfile.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Redacted returns the config as a plain map with tokens masked, for display.
func (c *Config) Redacted() map[string]interface{} {
	out := map[string]interface{}{}
	if c.DefaultEnv != "" {
		out[keyDefaultEnv] = c.DefaultEnv
	}
	if c.IPv4Only {
		out[keyIPv4Only] = true
	}
	if c.Converter.Backend != "" || c.Converter.PandocPath != "" {
		out[keyConverter] = c.Converter
	}
	if len(c.CustomFields) > 0 {
		out[keyCustomFields] = c.CustomFields
	}
	if len(c.SecurityLevels) > 0 {
		out[keySecurityLevels] = c.SecurityLevels
	}
	for name, env := range c.Environments {
		if env == nil {
			continue
		}
		e := *env
		e.Token = Secret(env.Token).String()
		out[name] = e
	}
	return out
}
