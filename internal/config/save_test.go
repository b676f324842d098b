package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("WriteTemplate returned error: %v", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if runtime.GOOS != "windows" && st.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", st.Mode().Perm())
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if len(cfg.Environments) != 0 {
		t.Errorf("expected template to define no environments, got %v", cfg.EnvironmentNames())
	}

	if err := WriteTemplate(path, false); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced WriteTemplate returned error: %v", err)
	}
}

func TestRedactedMasksTokens(t *testing.T) {
	cfg := testConfig()
	out := cfg.Redacted()

	prod, ok := out["prod"].(Environment)
	if !ok {
		t.Fatalf("expected prod environment, got %T", out["prod"])
	}
	if prod.Token != redacted {
		t.Errorf("expected masked token, got %q", prod.Token)
	}
	if cfg.Environments["prod"].Token != "prod-token" {
		t.Error("Redacted mutated the config")
	}
	if bare := out["bare"].(Environment); bare.Token != "" {
		t.Errorf("expected empty token to stay empty, got %q", bare.Token)
	}
	if out["default_env"] != "staging" {
		t.Errorf("expected default_env, got %v", out["default_env"])
	}
	if !strings.Contains(Template(), "security_levels") {
		t.Error("template should document security_levels")
	}
}
