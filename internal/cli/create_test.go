package cli

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/rest/api/2/issue") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"10001","key":"PROJ-1","self":"http://jira/rest/api/2/issue/10001"}`)
	}
}

func TestCreateConvertsMarkdownAndResolvesAliases(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))
	story := env.writeFile("story.md", "---\nsummary: Login page\n---\n# Goal\n\nUsers can **sign in**.\n")

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story",
		"--description-file", story,
		"--acceptance-criteria", "Given a user, they can log in",
		"--epic-name", "auth",
		"--field", "story_points=5",
	)
	require.NoError(t, err)
	require.True(t, resp.OK)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PROJ-1", data["key"])
	assert.Equal(t, jira.URL+"/browse/PROJ-1", data["url"])
	assert.Equal(t, "staging", resp.Meta.Env)

	reqs := jira.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer staging-token", reqs[0].Auth)

	fields := reqs[0].Body["fields"].(map[string]interface{})
	assert.Equal(t, "Login page", fields["summary"])
	assert.Equal(t, map[string]interface{}{"key": "PROJ"}, fields["project"])
	assert.Equal(t, map[string]interface{}{"name": "Story"}, fields["issuetype"])
	assert.Equal(t, map[string]interface{}{"id": "10000"}, fields["security"])
	assert.Equal(t, "Given a user, they can log in", fields["customfield_10001"])
	assert.Equal(t, "auth", fields["customfield_10011"])
	assert.Equal(t, "5", fields["customfield_10002"])

	desc := fields["description"].(string)
	assert.Contains(t, desc, "h1. Goal")
	assert.Contains(t, desc, "*sign in*")
	assert.NotContains(t, desc, "summary: Login page")
}

func TestCreateSendsLiteralDescriptionVerbatim(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	literal := "# not a heading\n*already wiki*"
	_, err := env.runJSON("create", "-p", "PROJ", "-t", "Task", "-s", "Literal", "-d", literal)
	require.NoError(t, err)

	reqs := jira.Requests()
	require.Len(t, reqs, 1)
	fields := reqs[0].Body["fields"].(map[string]interface{})
	assert.Equal(t, literal, fields["description"])
}

func TestCreateUnknownAliasSendsNothing(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story", "-s", "x", "--field", "story_pts=3")
	require.Error(t, err)
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrUnknownFieldAlias, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "story_pts")
	assert.Contains(t, resp.Error.Suggestion, "story_points")
	assert.Empty(t, jira.Requests())
}

func TestCreateUnknownEnvironmentMakesNoRequests(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "--env", "qa", "-p", "PROJ", "-t", "Story", "-s", "x")
	require.Error(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrUnknownEnvironment, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "qa")
	assert.Empty(t, jira.Requests())
}

func TestCreateSwitchesEnvironments(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	_, err := env.runJSON("create", "--env", "prod", "-p", "PROJ", "-t", "Story", "-s", "x", "-f", "story_points=8")
	require.NoError(t, err)

	reqs := jira.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/prod/rest/api/2/issue", reqs[0].Path)
	assert.Equal(t, "Bearer prod-token", reqs[0].Auth)
	fields := reqs[0].Body["fields"].(map[string]interface{})
	assert.Equal(t, "8", fields["customfield_20002"])
	assert.NotContains(t, fields, "customfield_10002")

	// epic_name is only configured for staging.
	resp, err := env.runJSON("create", "--env", "prod", "-p", "PROJ", "-t", "Epic", "-s", "x", "--epic-name", "e")
	require.Error(t, err)
	assert.Equal(t, ErrUnknownFieldAlias, resp.Error.Code)
	assert.Len(t, jira.Requests(), 1)
}

func TestCreateMissingDescriptionFile(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story", "-s", "x", "--description-file", "nope.md")
	require.Error(t, err)
	assert.Equal(t, ErrFileNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "nope.md")
	assert.Empty(t, jira.Requests())
}

func TestCreateDryRun(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story", "-s", "x", "--security", "confidential", "--dry-run")
	require.NoError(t, err)
	assert.True(t, resp.Meta.DryRun)
	fields := resp.Data.(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"id": "10101"}, fields["security"])
	assert.Empty(t, jira.Requests())
}

func TestCreateRequiresFields(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "-p", "PROJ", "-s", "no type")
	require.Error(t, err)
	assert.Equal(t, ErrRequiredField, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "issue type")
}

func TestCreateTextOutput(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	out, err := env.run("create", "-p", "PROJ", "-t", "Story", "-s", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "PROJ-1")
	assert.Contains(t, out, "/browse/PROJ-1")
}

func TestDescriptionFlagsAreExclusive(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(stagingConfig(jira.URL))

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story", "-s", "x", "-d", "a", "--description-file", "b.md")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, resp.Error.Code)
	assert.Empty(t, jira.Requests())
}

func TestCreateRejectsTwoAliasesForOneField(t *testing.T) {
	env := newCLIEnv(t)
	jira := newFakeJira(t, createdHandler(t))
	env.writeConfig(strings.Replace(stagingConfig(jira.URL),
		"  acceptance_criteria: customfield_10001\n",
		"  acceptance_criteria: customfield_10001\n  ac: customfield_10001\n", 1))

	resp, err := env.runJSON("create", "-p", "PROJ", "-t", "Story", "-s", "x",
		"--acceptance-criteria", "long form", "-f", "ac=short form")
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateField, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "customfield_10001")
	assert.Contains(t, resp.Error.Message, "ac")
	assert.Empty(t, jira.Requests())
}
