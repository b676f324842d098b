package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/jirahhh/internal/commands"
)

// Added by cobra at execution time.
var cobraBuiltins = []string{"completion", "help"}

func TestEveryRegistryCommandExists(t *testing.T) {
	for _, id := range commands.AllCommandIDs() {
		path := strings.ReplaceAll(id, "_", " ")
		if _, ok := findCommandByPath(rootCmd, path); !ok {
			t.Errorf("registry command %q is missing from CLI tree", path)
		}
	}
}

func TestCommandFlagsMatchRegistry(t *testing.T) {
	for _, id := range commands.AllCommandIDs() {
		meta := commands.Registry[id]
		cmd, ok := findCommandByPath(rootCmd, meta.Name)
		if !ok {
			continue
		}

		cliFlags := make(map[string]*pflag.Flag)
		cmd.LocalNonPersistentFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "help" {
				return
			}
			cliFlags[flag.Name] = flag
		})

		registryFlags := make(map[string]commands.FlagMeta, len(meta.Flags))
		for _, flag := range meta.Flags {
			registryFlags[flag.Name] = flag
		}

		for name := range cliFlags {
			if _, ok := registryFlags[name]; !ok {
				t.Errorf("%s: CLI flag %q is missing from registry metadata", meta.Name, name)
			}
		}
		for name, rf := range registryFlags {
			cf, ok := cliFlags[name]
			if !ok {
				t.Errorf("%s: registry flag %q is missing from CLI command", meta.Name, name)
				continue
			}
			if cf.Shorthand != rf.Short {
				t.Errorf("%s --%s: shorthand %q, registry says %q", meta.Name, name, cf.Shorthand, rf.Short)
			}
			if rf.Default != "" && strings.Trim(cf.DefValue, "[]") != rf.Default {
				t.Errorf("%s --%s: default %q, registry says %q", meta.Name, name, cf.DefValue, rf.Default)
			}
		}
	}
}

func TestEveryCommandHasRegistryMetadata(t *testing.T) {
	for _, path := range commandPaths(rootCmd) {
		if slices.Contains(cobraBuiltins, strings.Fields(path)[0]) {
			continue
		}
		if _, ok := commands.LookupMetaByPath(path); !ok {
			t.Errorf("CLI command %q is missing registry metadata", path)
		}
	}
}

func TestUseLinesComeFromRegistry(t *testing.T) {
	cases := map[string]string{
		"create":            "create",
		"update":            "update <key>",
		"api":               "api <method> <endpoint>",
		"docs":              "docs [topic]",
		"auth set-token":    "set-token <env>",
		"auth delete-token": "delete-token <env>",
	}
	for path, want := range cases {
		cmd, ok := findCommandByPath(rootCmd, path)
		if !ok {
			t.Fatalf("command %q not found", path)
		}
		if cmd.Use != want {
			t.Errorf("%s: Use = %q, want %q", path, cmd.Use, want)
		}
	}
}

func TestSyncAppliesRegistryHelp(t *testing.T) {
	syncRegistryMetadata(rootCmd)

	cmd, ok := findCommandByPath(rootCmd, "create")
	if !ok {
		t.Fatal("create command missing")
	}
	meta := commands.Registry["create"]
	if cmd.Short != meta.Description {
		t.Errorf("Short = %q, want %q", cmd.Short, meta.Description)
	}
	if !strings.Contains(cmd.Long, "Examples:") || !strings.Contains(cmd.Long, meta.Examples[0]) {
		t.Errorf("Long does not include examples:\n%s", cmd.Long)
	}
	if cmd.ValidArgsFunction != nil {
		t.Error("create takes no arguments and should have no argument completion")
	}

	setToken, _ := findCommandByPath(rootCmd, "auth set-token")
	if setToken.ValidArgsFunction == nil {
		t.Error("auth set-token should complete environment names")
	}
}

func commandPaths(root *cobra.Command) []string {
	var out []string
	var walk func(cmd *cobra.Command, prefix string)

	walk = func(cmd *cobra.Command, prefix string) {
		for _, child := range cmd.Commands() {
			path := child.Name()
			if prefix != "" {
				path = strings.TrimSpace(prefix + " " + child.Name())
			}
			out = append(out, path)
			walk(child, path)
		}
	}

	walk(root, "")
	return out
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	parts := strings.Fields(path)
	cur := root
	for _, part := range parts {
		var next *cobra.Command
		for _, child := range cur.Commands() {
			if child.Name() == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
