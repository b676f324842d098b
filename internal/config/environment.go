package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/jirahhh/internal/fieldmap"
)

// Secret is a string that never prints its value. Use Reveal to get it.
type Secret string

const redacted = "********"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v from leaking the value.
func (s Secret) GoString() string { return fmt.Sprintf("config.Secret(%q)", s.String()) }

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

// Reveal returns the secret value.
func (s Secret) Reveal() string { return string(s) }

// Profile is the resolved connection profile for one environment.
type Profile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Token    Secret `json:"token"`
	Proxy    string `json:"proxy,omitempty"`
	Email    string `json:"email,omitempty"`
	IPv4Only bool   `json:"ipv4_only"`

	// TokenSource says where the token came from: env, config or keyring.
	TokenSource string `json:"token_source,omitempty"`

	Fields fieldmap.FieldMap `json:"-"`
}

// Validate checks the profile is usable for a connection.
func (p *Profile) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.URL, validation.Required, validation.By(httpURL)),
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.Proxy, validation.By(httpURL)),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return validation.NewError("validation_is_http_url", "must be an http or https URL")
	}
	return nil
}

// TokenLookup fetches a stored token for an environment.
type TokenLookup func(env string) (string, error)

// ResolveOptions carries overrides applied on top of the config file.
type ResolveOptions struct {
	// URL and Proxy come from command-line flags and win over everything.
	URL   string
	Proxy string

	// Settings holds overrides read from the process environment.
	Settings Settings

	// Token is consulted when neither the environment nor the config file has a token.
	Token TokenLookup

	Logger *slog.Logger
}

// Resolve selects and validates the profile for the environment called name.
// An empty name selects the config's default_env.
func Resolve(name string, cfg *Config, opts ResolveOptions) (*Profile, error) {
	if cfg == nil {
		cfg = newConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(cfg.DefaultEnv)
	}
	if name == "" {
		return nil, ErrNoEnvironment
	}

	env, ok := cfg.Environments[name]
	if !ok || env == nil {
		return nil, &UnknownEnvironmentError{Name: name, Known: cfg.EnvironmentNames()}
	}

	p := &Profile{
		Name:        name,
		URL:         env.URL,
		Token:       Secret(env.Token),
		Proxy:       env.Proxy,
		Email:       env.Email,
		IPv4Only:    opts.Settings.IPv4Only.Or(cfg.IPv4Only),
		Fields:      cfg.FieldMap(name),
		TokenSource: "config",
	}

	if opts.Settings.URL != "" {
		p.URL = opts.Settings.URL
	}
	if opts.URL != "" {
		p.URL = opts.URL
	}
	if opts.Proxy != "" {
		p.Proxy = opts.Proxy
	}
	if opts.Settings.APIToken != "" {
		p.Token = Secret(opts.Settings.APIToken)
		p.TokenSource = "env"
	}
	if p.Token == "" {
		p.TokenSource = ""
		if opts.Token != nil {
			tok, err := opts.Token(name)
			switch {
			case err != nil:
				logger.Debug("no stored token", "env", name, "error", err)
			case tok != "":
				p.Token = Secret(tok)
				p.TokenSource = "keyring"
			}
		}
	}
	p.URL = strings.TrimRight(p.URL, "/")

	if err := p.Validate(); err != nil {
		return nil, &InvalidProfileError{Env: name, Err: err}
	}

	logger.Debug("resolved environment",
		"env", p.Name,
		"url", p.URL,
		"proxy", p.Proxy,
		"token", p.Token,
		"token_source", p.TokenSource,
		"ipv4_only", p.IPv4Only,
	)
	return p, nil
}

// ErrNoEnvironment is returned when neither --env nor default_env names an environment.
var ErrNoEnvironment = errors.New("no environment specified")

// UnknownEnvironmentError is returned when the requested environment is not configured.
type UnknownEnvironmentError struct {
	Name  string
	Known []string
}

func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("environment '%s' not found in config", e.Name)
}

// Suggestion is shown alongside the error in CLI output.
func (e *UnknownEnvironmentError) Suggestion() string {
	if len(e.Known) == 0 {
		return "Run 'jirahhh config init' and add an environment section"
	}
	return "Configured environments: " + strings.Join(e.Known, ", ")
}

// Details is included in JSON error output.
func (e *UnknownEnvironmentError) Details() map[string]interface{} {
	return map[string]interface{}{
		"env":                e.Name,
		"known_environments": e.Known,
	}
}

// InvalidProfileError is returned when a resolved profile is missing a URL or
// token, or has malformed values.
type InvalidProfileError struct {
	Env string
	Err error
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("environment '%s' is not usable: %v", e.Env, e.Err)
}

func (e *InvalidProfileError) Unwrap() error { return e.Err }

// Suggestion is shown alongside the error in CLI output.
func (e *InvalidProfileError) Suggestion() string {
	return fmt.Sprintf("Set %s.url and %s.token in the config file, export JIRA_URL / JIRA_API_TOKEN, or run 'jirahhh auth set-token %s'", e.Env, e.Env, e.Env)
}
