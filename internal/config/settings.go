package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings are overrides read from the process environment.
type Settings struct {
	LogLevel   string
	IPv4Only   Tristate
	ConfigPath string
	APIToken   string
	URL        string
	Converter  string

	// KeyringBackend and KeyringDir configure the token store.
	KeyringBackend string
	KeyringDir     string
}

// Tristate is a boolean override that may be unset.
type Tristate int

const (
	Unset Tristate = iota
	ForceOn
	ForceOff
)

// Or returns the override when set, otherwise fallback.
func (t Tristate) Or(fallback bool) bool {
	switch t {
	case ForceOn:
		return true
	case ForceOff:
		return false
	}
	return fallback
}

// ParseTristate reads 1/true/yes as on and 0/false/no as off. Anything else is unset.
func ParseTristate(s string) Tristate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return ForceOn
	case "0", "false", "no":
		return ForceOff
	}
	return Unset
}

var settingsEnv = map[string]string{
	"log_level": "JIRAHHH_LOG_LEVEL",
	"ipv4_only": "JIRAHHH_IPV4_ONLY",
	"config":    "JIRAHHH_CONFIG",
	"api_token": "JIRA_API_TOKEN",
	"url":       "JIRA_URL",
	"converter": "JIRAHHH_CONVERTER",

	"keyring_backend": "JIRAHHH_KEYRING_BACKEND",
	"keyring_dir":     "JIRAHHH_KEYRING_DIR",
}

// LoadSettings reads the ambient settings from the process environment.
func LoadSettings() Settings {
	v := viper.New()
	for key, env := range settingsEnv {
		_ = v.BindEnv(key, env)
	}
	return Settings{
		LogLevel:   strings.TrimSpace(v.GetString("log_level")),
		IPv4Only:   ParseTristate(v.GetString("ipv4_only")),
		ConfigPath: strings.TrimSpace(v.GetString("config")),
		APIToken:   strings.TrimSpace(v.GetString("api_token")),
		URL:        strings.TrimSpace(v.GetString("url")),
		Converter:  strings.TrimSpace(v.GetString("converter")),

		KeyringBackend: strings.TrimSpace(v.GetString("keyring_backend")),
		KeyringDir:     strings.TrimSpace(v.GetString("keyring_dir")),
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
