package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings(t *testing.T) {
	t.Setenv("JIRAHHH_LOG_LEVEL", "debug")
	t.Setenv("JIRAHHH_IPV4_ONLY", "yes")
	t.Setenv("JIRAHHH_CONFIG", "/tmp/jirahhh.yaml")
	t.Setenv("JIRA_API_TOKEN", " tok ")
	t.Setenv("JIRA_URL", "https://env.example.com")
	t.Setenv("JIRAHHH_CONVERTER", "builtin")
	t.Setenv("JIRAHHH_KEYRING_BACKEND", "file")
	t.Setenv("JIRAHHH_KEYRING_DIR", "/tmp/keys")

	s := LoadSettings()
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
	if s.IPv4Only != ForceOn {
		t.Errorf("IPv4Only = %v", s.IPv4Only)
	}
	if s.ConfigPath != "/tmp/jirahhh.yaml" {
		t.Errorf("ConfigPath = %q", s.ConfigPath)
	}
	if s.APIToken != "tok" {
		t.Errorf("APIToken = %q", s.APIToken)
	}
	if s.URL != "https://env.example.com" {
		t.Errorf("URL = %q", s.URL)
	}
	if s.Converter != "builtin" {
		t.Errorf("Converter = %q", s.Converter)
	}
	if s.KeyringBackend != "file" || s.KeyringDir != "/tmp/keys" {
		t.Errorf("keyring settings = %q, %q", s.KeyringBackend, s.KeyringDir)
	}
}

func TestParseTristate(t *testing.T) {
	tests := []struct {
		in   string
		want Tristate
	}{
		{"1", ForceOn},
		{"TRUE", ForceOn},
		{"yes", ForceOn},
		{"0", ForceOff},
		{"false", ForceOff},
		{"No", ForceOff},
		{"", Unset},
		{"maybe", Unset},
	}
	for _, tt := range tests {
		if got := ParseTristate(tt.in); got != tt.want {
			t.Errorf("ParseTristate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if !Unset.Or(true) || Unset.Or(false) {
		t.Error("Unset should return the fallback")
	}
	if ForceOff.Or(true) || !ForceOn.Or(false) {
		t.Error("forced values should ignore the fallback")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JIRAHHH_TEST_FROM_DOTENV=loaded\nJIRAHHH_TEST_PRESET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JIRAHHH_TEST_PRESET", "from-env")
	t.Setenv("JIRAHHH_TEST_FROM_DOTENV", "")
	os.Unsetenv("JIRAHHH_TEST_FROM_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("JIRAHHH_TEST_FROM_DOTENV"); got != "loaded" {
		t.Errorf("expected value from .env, got %q", got)
	}
	if got := os.Getenv("JIRAHHH_TEST_PRESET"); got != "from-env" {
		t.Errorf("expected existing variable to win, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("expected missing file to be ignored, got %v", err)
	}
}
