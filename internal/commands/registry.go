// Package commands is the registry of jirahhh CLI command metadata.
// The CLI reads usage text, argument shapes and help from here so that
// `--help`, the docs and shell completion agree.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command name (e.g., "create", "config init")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples

	// NeedsEnv is true for commands that resolve an environment and talk to Jira.
	NeedsEnv bool
	// Mutates is true for commands that change data on the server.
	Mutates bool
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Variadic    bool     // Accepts any number of trailing values
	Completions []string // Static completions (if any)
	DynamicComp string   // Dynamic completion type: "environments", "files"
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "summary", "field")
	Short       string   // Short flag (e.g., "s" for -s)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
	Examples    []string // Example values
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeInt         FlagType = "int"
	FlagTypeKeyValue    FlagType = "key=value"   // Repeatable: --field alias=value
	FlagTypeStringSlice FlagType = "stringSlice" // Comma separated or repeatable
	FlagTypeContent     FlagType = "content"     // Inline text or a path to a .md/.txt file
	FlagTypeJSON        FlagType = "json"        // Raw JSON document
)

// Content flags shared by create and update.
var (
	descriptionFlag = FlagMeta{
		Name:        "description",
		Short:       "d",
		Description: "Description as wiki markup, or a path to a .md (converted) or .txt file",
		Type:        FlagTypeContent,
	}
	descriptionFileFlag = FlagMeta{
		Name:        "description-file",
		Description: "Read the description from a file (.md is converted, '-' reads stdin verbatim)",
		Type:        FlagTypeString,
		Examples:    []string{"story.md", "notes.txt", "-"},
	}
	acceptanceCriteriaFlag = FlagMeta{
		Name:        "acceptance-criteria",
		Description: "Acceptance criteria text or file (sets the acceptance_criteria alias)",
		Type:        FlagTypeContent,
	}
	fieldFlag = FlagMeta{
		Name:        "field",
		Short:       "f",
		Description: "Set a custom field by alias (repeatable); JSON values are decoded",
		Type:        FlagTypeKeyValue,
		Examples:    []string{"story_points=5", `components=[{"name":"API"}]`},
	}
	dryRunFlag = FlagMeta{
		Name:        "dry-run",
		Description: "Print the request body instead of sending it",
		Type:        FlagTypeBool,
	}
)

// Registry holds all registered commands, keyed by command path with spaces
// replaced by underscores.
var Registry = map[string]Meta{
	"create": {
		Name:        "create",
		Description: "Create an issue",
		LongDesc: `Creates an issue in the selected environment.

The description may be given inline (already in wiki markup) or as a file.
Markdown files (.md) are converted to Jira wiki markup, front matter is
stripped, and a front matter "summary" or "title" is used when --summary is
omitted. Text files and inline text are sent exactly as written.

Custom fields are set by alias. Every alias must be configured for the
environment in custom_fields, otherwise nothing is sent. A security level
aliased "default" is applied unless --security names another one.`,
		Flags: []FlagMeta{
			{Name: "project", Short: "p", Description: "Project key", Type: FlagTypeString, Examples: []string{"PROJ"}},
			{Name: "summary", Short: "s", Description: "Issue summary", Type: FlagTypeString},
			{Name: "type", Short: "t", Description: "Issue type", Type: FlagTypeString, Examples: []string{"Story", "Task", "Epic", "Spike"}},
			descriptionFlag,
			descriptionFileFlag,
			acceptanceCriteriaFlag,
			{Name: "epic-name", Description: "Epic name (sets the epic_name alias)", Type: FlagTypeString},
			{Name: "parent", Description: "Parent issue key (sets the parent_link alias)", Type: FlagTypeString, Examples: []string{"PROJ-123"}},
			{Name: "epic-link", Description: "Epic issue key (sets the epic_link alias)", Type: FlagTypeString, Examples: []string{"PROJ-456"}},
			{Name: "security", Description: "Security level alias", Type: FlagTypeString, Examples: []string{"confidential"}},
			fieldFlag,
			dryRunFlag,
		},
		Examples: []string{
			"jirahhh create -p PROJ -s \"Login page\" --description-file story.md",
			"jirahhh create -p PROJ -t Epic -s \"Checkout\" --epic-name checkout --env prod",
			"jirahhh create -p PROJ --description-file story.md --field story_points=5 --json",
		},
		NeedsEnv: true,
		Mutates:  true,
	},
	"update": {
		Name:        "update",
		Description: "Update an issue",
		LongDesc: `Updates the summary, description or custom fields of an issue.

Only the fields that are given are changed. Content flags behave as in
'jirahhh create'.`,
		Args: []ArgMeta{
			{Name: "key", Description: "Issue key", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "summary", Short: "s", Description: "New summary", Type: FlagTypeString},
			descriptionFlag,
			descriptionFileFlag,
			acceptanceCriteriaFlag,
			fieldFlag,
			dryRunFlag,
		},
		Examples: []string{
			"jirahhh update PROJ-123 --description-file story.md",
			"jirahhh update PROJ-123 --field story_points=8 --env prod",
		},
		NeedsEnv: true,
		Mutates:  true,
	},
	"view": {
		Name:        "view",
		Description: "Show an issue",
		LongDesc: `Shows an issue. Custom fields that have an alias in the environment's
custom_fields are shown under that alias.`,
		Args: []ArgMeta{
			{Name: "key", Description: "Issue key", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "fields", Description: "Comma separated field ids to fetch (default: all)", Type: FlagTypeStringSlice, Examples: []string{"summary,status"}},
		},
		Examples: []string{
			"jirahhh view PROJ-123",
			"jirahhh view PROJ-123 --fields summary,status --json",
		},
		NeedsEnv: true,
	},
	"search": {
		Name:        "search",
		Description: "Search issues with JQL",
		Args: []ArgMeta{
			{Name: "jql", Description: "JQL query", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "fields", Description: "Comma separated field ids to fetch", Type: FlagTypeStringSlice, Default: "summary,status,issuetype,assignee"},
			{Name: "max-results", Short: "n", Description: "Maximum number of issues to return", Type: FlagTypeInt, Default: "50"},
		},
		Examples: []string{
			"jirahhh search \"project = PROJ AND status = Open\"",
			"jirahhh search \"assignee = currentUser()\" -n 200 --json",
		},
		NeedsEnv: true,
	},
	"fields": {
		Name:        "fields",
		Description: "List fields known to the instance",
		LongDesc: `Lists the fields of the Jira instance. With --project (and optionally
--type), fields are annotated with whether they are required on create and
which operations they allow.

--suggest-aliases prints a custom_fields block that can be pasted into the
config file.`,
		Flags: []FlagMeta{
			{Name: "project", Short: "p", Description: "Project key for create metadata", Type: FlagTypeString},
			{Name: "type", Short: "t", Description: "Issue type for create metadata", Type: FlagTypeString},
			{Name: "custom", Description: "Only list custom fields", Type: FlagTypeBool},
			{Name: "suggest-aliases", Description: "Print a custom_fields YAML block for the config", Type: FlagTypeBool},
		},
		Examples: []string{
			"jirahhh fields --custom",
			"jirahhh fields -p PROJ -t Story --json",
			"jirahhh fields --custom --suggest-aliases >> ~/.config/jirahhh/config.yaml",
		},
		NeedsEnv: true,
	},
	"comment": {
		Name:        "comment",
		Description: "Add a comment to an issue",
		Args: []ArgMeta{
			{Name: "key", Description: "Issue key", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "body", Short: "b", Description: "Comment as wiki markup, or a path to a .md or .txt file", Type: FlagTypeContent},
			{Name: "body-file", Description: "Read the comment from a file ('-' reads stdin verbatim)", Type: FlagTypeString},
			dryRunFlag,
		},
		Examples: []string{
			"jirahhh comment PROJ-123 --body \"Deployed to staging\"",
			"jirahhh comment PROJ-123 --body-file notes.md",
		},
		NeedsEnv: true,
		Mutates:  true,
	},
	"api": {
		Name:        "api",
		Description: "Call any REST endpoint",
		LongDesc: `Sends a request to an arbitrary endpoint of the selected environment and
prints the response. --data is sent unmodified. --body-file reads a file
(converting .md) and sets it as the "body" key of the JSON document.`,
		Args: []ArgMeta{
			{Name: "method", Description: "HTTP method", Required: true, Completions: []string{"GET", "POST", "PUT", "DELETE"}},
			{Name: "endpoint", Description: "Endpoint path", Required: true},
		},
		Flags: []FlagMeta{
			{Name: "data", Description: "JSON request body", Type: FlagTypeJSON, Examples: []string{`{"body":"hi"}`}},
			{Name: "body-file", Description: "File whose content becomes the \"body\" key", Type: FlagTypeString},
		},
		Examples: []string{
			"jirahhh api GET /rest/api/2/myself",
			"jirahhh api POST /rest/api/2/issue/PROJ-1/comment --body-file notes.md",
		},
		NeedsEnv: true,
		Mutates:  true,
	},
	"convert": {
		Name:        "convert",
		Description: "Convert a markdown file to Jira wiki markup",
		LongDesc: `Runs the same content pipeline as create and update, locally, and prints
the result. Markdown files are converted; .txt files and stdin ('-') are
printed unchanged. No environment is needed.`,
		Args: []ArgMeta{
			{Name: "path", Description: "File to convert, or - for stdin", Required: true, DynamicComp: "files"},
		},
		Flags: []FlagMeta{
			{Name: "backend", Description: "Converter backend", Type: FlagTypeString, Examples: []string{"pandoc", "builtin", "auto"}},
		},
		Examples: []string{
			"jirahhh convert story.md",
			"jirahhh convert story.md --backend builtin",
		},
	},
	"config": {
		Name:        "config",
		Description: "Manage the config file",
	},
	"config_init": {
		Name:        "config init",
		Description: "Write a starter config file",
		Flags: []FlagMeta{
			{Name: "force", Description: "Overwrite an existing file", Type: FlagTypeBool},
		},
		Examples: []string{"jirahhh config init", "jirahhh config init --config ./jira.yaml"},
	},
	"config_show": {
		Name:        "config show",
		Description: "Print the loaded config with tokens redacted",
	},
	"config_path": {
		Name:        "config path",
		Description: "Print the config file path in use",
	},
	"config_envs": {
		Name:        "config envs",
		Description: "List configured environments",
	},
	"auth": {
		Name:        "auth",
		Description: "Manage tokens stored in the OS keyring",
	},
	"auth_set-token": {
		Name:        "auth set-token",
		Description: "Store an API token for an environment",
		LongDesc: `Stores a personal access token in the OS keyring. The token is used when
neither JIRA_API_TOKEN nor the config file provides one.

On a terminal the token is read without echo; otherwise one line is read
from stdin.`,
		Args: []ArgMeta{
			{Name: "env", Description: "Environment name", Required: true, DynamicComp: DynamicEnvironments},
		},
		Examples: []string{
			"jirahhh auth set-token prod",
			"printf '%s' \"$TOKEN\" | jirahhh auth set-token staging",
		},
	},
	"auth_delete-token": {
		Name:        "auth delete-token",
		Description: "Remove a stored API token",
		Args: []ArgMeta{
			{Name: "env", Description: "Environment name", Required: true, DynamicComp: DynamicEnvironments},
		},
	},
	"docs": {
		Name:        "docs",
		Description: "Read the bundled guides",
		Args: []ArgMeta{
			{Name: "topic", Description: "Guide to show (omit to list)"},
		},
		Examples: []string{"jirahhh docs", "jirahhh docs fields"},
	},
	"version": {
		Name:        "version",
		Description: "Show version and build information",
	},
}
