package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func testConfig() *Config {
	cfg := newConfig()
	cfg.DefaultEnv = "staging"
	cfg.CustomFields["acceptance_criteria"] = "customfield_10001"
	cfg.Environments["staging"] = &Environment{
		URL:   "https://jira-staging.example.com/",
		Token: "staging-token",
	}
	cfg.Environments["prod"] = &Environment{
		URL:   "https://jira.example.com",
		Token: "prod-token",
		Proxy: "http://proxy.example.com:3128",
	}
	cfg.Environments["bare"] = &Environment{URL: "https://bare.example.com"}
	return cfg
}

func TestResolve(t *testing.T) {
	t.Run("named environment", func(t *testing.T) {
		p, err := Resolve("prod", testConfig(), ResolveOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "prod" || p.URL != "https://jira.example.com" || p.Proxy != "http://proxy.example.com:3128" {
			t.Errorf("unexpected profile: %+v", p)
		}
		if p.Token.Reveal() != "prod-token" || p.TokenSource != "config" {
			t.Errorf("expected config token, got source %q", p.TokenSource)
		}
		if id, _ := p.Fields.Field("acceptance_criteria"); id != "customfield_10001" {
			t.Errorf("expected shared alias in profile field map, got %q", id)
		}
	})

	t.Run("default environment and trailing slash", func(t *testing.T) {
		p, err := Resolve("", testConfig(), ResolveOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "staging" {
			t.Errorf("expected default env staging, got %q", p.Name)
		}
		if p.URL != "https://jira-staging.example.com" {
			t.Errorf("expected trailing slash trimmed, got %q", p.URL)
		}
	})

	t.Run("no environment", func(t *testing.T) {
		cfg := testConfig()
		cfg.DefaultEnv = ""
		_, err := Resolve("", cfg, ResolveOptions{})
		if !errors.Is(err, ErrNoEnvironment) {
			t.Fatalf("expected ErrNoEnvironment, got %v", err)
		}
	})

	t.Run("unknown environment", func(t *testing.T) {
		lookups := 0
		_, err := Resolve("nonexistent", testConfig(), ResolveOptions{
			Settings: Settings{URL: "https://override.example.com", APIToken: "env-token"},
			Token: func(string) (string, error) {
				lookups++
				return "", nil
			},
		})
		var envErr *UnknownEnvironmentError
		if !errors.As(err, &envErr) {
			t.Fatalf("expected UnknownEnvironmentError, got %v", err)
		}
		if envErr.Name != "nonexistent" {
			t.Errorf("expected name nonexistent, got %q", envErr.Name)
		}
		if strings.Join(envErr.Known, ",") != "bare,prod,staging" {
			t.Errorf("expected known environments, got %v", envErr.Known)
		}
		if lookups != 0 {
			t.Errorf("expected no token lookups, got %d", lookups)
		}
	})

	t.Run("flags override environment variables override config", func(t *testing.T) {
		p, err := Resolve("prod", testConfig(), ResolveOptions{
			URL:      "https://flag.example.com",
			Proxy:    "http://flagproxy:8080",
			Settings: Settings{URL: "https://env.example.com", APIToken: "env-token"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.URL != "https://flag.example.com" {
			t.Errorf("expected flag URL, got %q", p.URL)
		}
		if p.Proxy != "http://flagproxy:8080" {
			t.Errorf("expected flag proxy, got %q", p.Proxy)
		}
		if p.Token.Reveal() != "env-token" || p.TokenSource != "env" {
			t.Errorf("expected env token, got source %q", p.TokenSource)
		}

		p, err = Resolve("prod", testConfig(), ResolveOptions{Settings: Settings{URL: "https://env.example.com"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.URL != "https://env.example.com" {
			t.Errorf("expected JIRA_URL override, got %q", p.URL)
		}
	})

	t.Run("keyring token used when none configured", func(t *testing.T) {
		var asked string
		p, err := Resolve("bare", testConfig(), ResolveOptions{
			Token: func(env string) (string, error) {
				asked = env
				return "stored-token", nil
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if asked != "bare" {
			t.Errorf("expected lookup for bare, got %q", asked)
		}
		if p.Token.Reveal() != "stored-token" || p.TokenSource != "keyring" {
			t.Errorf("expected keyring token, got source %q", p.TokenSource)
		}
	})

	t.Run("missing token is invalid", func(t *testing.T) {
		_, err := Resolve("bare", testConfig(), ResolveOptions{
			Token: func(string) (string, error) { return "", fmt.Errorf("not found") },
		})
		var invalid *InvalidProfileError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
		if !strings.Contains(err.Error(), "token") {
			t.Errorf("expected error to mention token, got %v", err)
		}
	})

	t.Run("malformed URL is invalid", func(t *testing.T) {
		cfg := testConfig()
		cfg.Environments["prod"].URL = "jira.example.com"
		_, err := Resolve("prod", cfg, ResolveOptions{})
		var invalid *InvalidProfileError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidProfileError, got %v", err)
		}
	})

	t.Run("ipv4 override", func(t *testing.T) {
		cfg := testConfig()
		cfg.IPv4Only = true

		p, _ := Resolve("prod", cfg, ResolveOptions{})
		if !p.IPv4Only {
			t.Error("expected config ipv4_only to apply")
		}
		p, _ = Resolve("prod", cfg, ResolveOptions{Settings: Settings{IPv4Only: ForceOff}})
		if p.IPv4Only {
			t.Error("expected JIRAHHH_IPV4_ONLY=0 to win")
		}
	})
}

func TestSecretNeverPrints(t *testing.T) {
	s := Secret("hunter2")

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%+v", Profile{Token: s}),
		s.LogValue().String(),
	} {
		if strings.Contains(out, "hunter2") {
			t.Errorf("secret leaked: %q", out)
		}
	}

	data, err := json.Marshal(Profile{Token: s})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hunter2") {
		t.Errorf("secret leaked in JSON: %s", data)
	}
	if s.Reveal() != "hunter2" {
		t.Errorf("Reveal returned %q", s.Reveal())
	}
	if Secret("").String() != "" {
		t.Error("expected empty secret to print empty")
	}
}
