package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// ResolveCommandID resolves a CLI command path to a registry command ID.
// Example: "auth set-token" -> "auth_set-token"
func ResolveCommandID(path string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", false
	}
	if _, ok := Registry[trimmed]; ok {
		return trimmed, true
	}
	underscored := strings.ReplaceAll(trimmed, " ", "_")
	if _, ok := Registry[underscored]; ok {
		return underscored, true
	}
	return "", false
}

// LookupMetaByPath resolves a CLI command path and returns its metadata.
func LookupMetaByPath(path string) (Meta, bool) {
	id, ok := ResolveCommandID(path)
	if !ok {
		return Meta{}, false
	}
	return Registry[id], true
}

// NeedsEnvironment reports whether the command at path talks to Jira.
func NeedsEnvironment(path string) bool {
	meta, ok := LookupMetaByPath(path)
	return ok && meta.NeedsEnv
}

// UseLine builds a cobra Use string from the command's arguments.
func UseLine(id string) string {
	meta, ok := Registry[id]
	if !ok {
		return id
	}
	parts := strings.Fields(meta.Name)
	use := parts[len(parts)-1]
	for _, arg := range meta.Args {
		name := arg.Name
		if arg.Variadic {
			name += "..."
		}
		if arg.Required {
			use += fmt.Sprintf(" <%s>", name)
		} else {
			use += fmt.Sprintf(" [%s]", name)
		}
	}
	return use
}

// PositionalArgs returns a cobra argument validator for the command.
func PositionalArgs(id string) cobra.PositionalArgs {
	meta := Registry[id]
	minArgs, maxArgs := 0, len(meta.Args)
	for _, arg := range meta.Args {
		if arg.Required {
			minArgs++
		}
		if arg.Variadic {
			maxArgs = -1
		}
	}
	switch {
	case maxArgs < 0:
		return cobra.MinimumNArgs(minArgs)
	case minArgs == maxArgs && minArgs == 0:
		return cobra.NoArgs
	case minArgs == maxArgs:
		return cobra.ExactArgs(minArgs)
	}
	return cobra.RangeArgs(minArgs, maxArgs)
}

// DynamicEnvironments is the DynamicComp kind completed with config environment names.
const DynamicEnvironments = "environments"

// DynamicSource supplies candidates for DynamicComp kinds such as DynamicEnvironments.
type DynamicSource func(kind string) []string

// CompletionFunc returns a shell completion function for the command's arguments.
func CompletionFunc(id string, dynamic DynamicSource) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	args := Registry[id].Args
	return func(cmd *cobra.Command, completedArgs []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(completedArgs) >= len(args) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		arg := args[len(completedArgs)]

		candidates := arg.Completions
		switch arg.DynamicComp {
		case "files":
			return nil, cobra.ShellCompDirectiveDefault
		case "":
		default:
			if dynamic != nil {
				candidates = dynamic(arg.DynamicComp)
			}
		}

		var matches []string
		for _, c := range candidates {
			if strings.HasPrefix(strings.ToLower(c), strings.ToLower(toComplete)) {
				matches = append(matches, c)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// AllCommandIDs returns every registered command ID, sorted.
func AllCommandIDs() []string {
	ids := make([]string, 0, len(Registry))
	for id := range Registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
