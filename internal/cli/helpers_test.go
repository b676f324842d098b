package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/jirahhh/internal/credential"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// resetCLI puts every flag and cached value back to its initial state so
// commands can run repeatedly in one process.
func resetCLI(t *testing.T) {
	t.Helper()
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		reset := func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				def := strings.Trim(f.DefValue, "[]")
				var vals []string
				if def != "" {
					vals = strings.Split(def, ",")
				}
				_ = sv.Replace(vals)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
		for _, child := range cmd.Commands() {
			walk(child)
		}
	}
	walk(rootCmd)
	cfg = nil
}

// cliEnv isolates a test from the user's config, tokens and environment.
type cliEnv struct {
	t          *testing.T
	dir        string
	configPath string
	ring       keyring.Keyring
	stdin      string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("JIRA_API_TOKEN", "")
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRAHHH_CONFIG", "")
	t.Setenv("JIRAHHH_CONVERTER", "builtin")
	t.Setenv("JIRAHHH_LOG_LEVEL", "")
	t.Chdir(dir)

	e := &cliEnv{
		t:          t,
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		ring:       keyring.NewArrayKeyring(nil),
	}

	origStore, origStdin := newTokenStore, stdinReader
	newTokenStore = func() tokenStore { return credential.NewStoreWith(e.ring) }
	t.Cleanup(func() {
		newTokenStore = origStore
		stdinReader = origStdin
		resetCLI(t)
	})
	return e
}

func (e *cliEnv) writeConfig(content string) {
	e.t.Helper()
	if err := os.WriteFile(e.configPath, []byte(content), 0o600); err != nil {
		e.t.Fatalf("write config: %v", err)
	}
}

func (e *cliEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// run executes the CLI with args and returns stdout and the command error.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	resetCLI(e.t)
	stdinReader = strings.NewReader(e.stdin)
	rootCmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	var err error
	out := captureStdout(e.t, func() {
		err = Execute(e.t.Context())
	})
	return out, err
}

// runJSON runs with --json and decodes the envelope.
func (e *cliEnv) runJSON(args ...string) (Response, error) {
	e.t.Helper()
	out, err := e.run(append([]string{"--json"}, args...)...)
	var resp Response
	if decodeErr := json.Unmarshal([]byte(out), &resp); decodeErr != nil {
		e.t.Fatalf("decode envelope: %v\noutput: %s", decodeErr, out)
	}
	return resp, err
}

// fakeJira records every request it receives.
type fakeJira struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
	Auth   string
}

func newFakeJira(t *testing.T, handler http.HandlerFunc) *fakeJira {
	t.Helper()
	f := &fakeJira{handler: handler}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(data))
		f.handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeJira) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// stagingConfig configures two environments against url with distinct field maps.
func stagingConfig(url string) string {
	return fmt.Sprintf(`default_env: staging
custom_fields:
  acceptance_criteria: customfield_10001
security_levels:
  default: "10000"
  confidential: "10101"
staging:
  url: %[1]s
  token: staging-token
  custom_fields:
    epic_name: customfield_10011
    story_points: customfield_10002
prod:
  url: %[1]s/prod
  token: prod-token
  custom_fields:
    story_points: customfield_20002
`, url)
}
