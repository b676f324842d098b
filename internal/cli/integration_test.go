//go:build integration

package cli_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/aidanlsb/jirahhh/internal/testutil"
)

const createdIssue = `{"id":"10001","key":"PROJ-1","self":"http://jira/rest/api/2/issue/10001"}`

func twoEnvConfig(url string) string {
	return fmt.Sprintf(`default_env: staging
custom_fields:
  acceptance_criteria: customfield_10001
staging:
  url: %[1]s
  custom_fields:
    story_points: customfield_10002
prod:
  url: %[1]s/prod
  token: prod-token
  custom_fields:
    story_points: customfield_20002
`, url)
}

// TestIntegration_CreateWithStoredToken stores a token in the file keyring
// and creates an issue from a markdown file with custom field aliases.
func TestIntegration_CreateWithStoredToken(t *testing.T) {
	jira := testutil.NewFakeJira(t).
		Handle(http.MethodPost, "/rest/api/2/issue", http.StatusCreated, createdIssue)
	w := testutil.NewWorkspace(t).WriteConfig(twoEnvConfig(jira.URL))
	story := w.WriteFile("stories/login.md", "---\nsummary: Login page\n---\n## Steps\n\n- open the page\n- sign in\n")

	w.RunCLI("create", "-p", "PROJ", "-t", "Story", "-s", "x").MustFail(t, "CONFIG_INVALID")
	jira.AssertNoRequests(t)

	w.RunCLIWithStdin("stored-token\n", "auth", "set-token", "staging").MustSucceed(t).AssertNoWarnings(t)

	result := w.RunCLI("create", "-p", "PROJ", "-t", "Story",
		"--description-file", story,
		"--acceptance-criteria", "It works",
		"-f", "story_points=3",
	)
	result.MustSucceed(t)
	if got := result.DataString("key"); got != "PROJ-1" {
		t.Errorf("key = %q, want PROJ-1", got)
	}
	if result.Meta == nil || result.Meta.Env != "staging" {
		t.Errorf("meta env = %+v, want staging", result.Meta)
	}

	req := jira.LastRequest(t)
	if req.Auth != "Bearer stored-token" {
		t.Errorf("auth = %q, want the stored token", req.Auth)
	}
	fields := req.Fields(t)
	if fields["summary"] != "Login page" {
		t.Errorf("summary = %v", fields["summary"])
	}
	if fields["customfield_10001"] != "It works" || fields["customfield_10002"] != "3" {
		t.Errorf("custom fields not resolved: %+v", fields)
	}
	desc, _ := fields["description"].(string)
	if !strings.Contains(desc, "h2. Steps") || !strings.Contains(desc, "* sign in") {
		t.Errorf("description not converted: %q", desc)
	}
}

// TestIntegration_UnknownEnvironmentMakesNoRequests checks that a bad --env
// is rejected before any network call.
func TestIntegration_UnknownEnvironmentMakesNoRequests(t *testing.T) {
	jira := testutil.NewFakeJira(t)
	w := testutil.NewWorkspace(t).WriteConfig(twoEnvConfig(jira.URL))

	w.RunCLI("create", "--env", "qa", "-p", "PROJ", "-t", "Story", "-s", "x").
		MustFail(t, "UNKNOWN_ENVIRONMENT").
		MustFailWithMessage(t, "qa")
	w.RunCLI("view", "--env", "qa", "PROJ-1").MustFail(t, "UNKNOWN_ENVIRONMENT")
	jira.AssertNoRequests(t)
}

// TestIntegration_UnknownAliasMakesNoRequests checks alias resolution is
// per environment and fails before sending.
func TestIntegration_UnknownAliasMakesNoRequests(t *testing.T) {
	jira := testutil.NewFakeJira(t).
		Handle(http.MethodPost, "/prod/rest/api/2/issue", http.StatusCreated, createdIssue)
	w := testutil.NewWorkspace(t).WriteConfig(twoEnvConfig(jira.URL))

	w.RunCLI("create", "--env", "prod", "-p", "PROJ", "-t", "Story", "-s", "x", "-f", "storypoints=1").
		MustFail(t, "UNKNOWN_FIELD_ALIAS").
		MustFailWithMessage(t, "story_points")
	jira.AssertNoRequests(t)

	w.RunCLI("create", "--env", "prod", "-p", "PROJ", "-t", "Story", "-s", "x", "-f", "story_points=1").MustSucceed(t)
	fields := jira.LastRequest(t).Fields(t)
	if fields["customfield_20002"] != "1" {
		t.Errorf("prod alias not used: %+v", fields)
	}
}

// TestIntegration_SearchAndErrors covers paging metadata and Jira errors.
func TestIntegration_SearchAndErrors(t *testing.T) {
	jira := testutil.NewFakeJira(t).
		Handle(http.MethodPost, "/rest/api/2/search", http.StatusOK,
			`{"startAt":0,"maxResults":1,"total":4,"issues":[{"id":"1","key":"PROJ-1","fields":{"summary":"One","status":{"name":"Open"}}}]}`)
	w := testutil.NewWorkspace(t).
		WriteConfig(twoEnvConfig(jira.URL)).
		Setenv("JIRA_API_TOKEN", "env-token")

	result := w.RunCLI("search", "project = PROJ", "-n", "1")
	result.MustSucceed(t)
	result.AssertResultCount(t, "issues", 1)
	if result.Meta == nil || result.Meta.Total != 4 {
		t.Errorf("meta = %+v, want total 4", result.Meta)
	}
	if auth := jira.LastRequest(t).Auth; auth != "Bearer env-token" {
		t.Errorf("auth = %q, want JIRA_API_TOKEN", auth)
	}

	w.RunCLI("view", "PROJ-404").MustFail(t, "API_ERROR")
}

// TestIntegration_TextModeErrorsExitNonZero checks human output on failure.
func TestIntegration_TextModeErrorsExitNonZero(t *testing.T) {
	w := testutil.NewWorkspace(t)

	_, result := w.RunText("convert", "missing.md")
	if result.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "missing.md") {
		t.Errorf("stderr should name the file, got %q", result.Stderr)
	}

	path := w.WriteFile("ok.md", "**bold**\n")
	out, result := w.RunText("convert", path)
	if result.ExitCode != 0 {
		t.Fatalf("convert failed: %s", result.Stderr)
	}
	if out != "*bold*\n" {
		t.Errorf("convert output = %q", out)
	}
}

// TestIntegration_ConfigInit writes the template to the configured path.
func TestIntegration_ConfigInit(t *testing.T) {
	w := testutil.NewWorkspace(t)

	w.RunCLI("config", "init").MustSucceed(t)
	w.AssertFileContains(w.ConfigPath, "default_env")
	w.RunCLI("config", "init").MustFail(t, "CONFIG_EXISTS")
	w.RunCLI("config", "path").MustSucceed(t)
}
