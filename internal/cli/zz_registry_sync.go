package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
)

// syncRegistryMetadata copies help text and argument completion from the
// command registry onto every subcommand of root.
func syncRegistryMetadata(root *cobra.Command) {
	prefix := root.Name() + " "
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, child := range cmd.Commands() {
			if id, ok := commands.ResolveCommandID(strings.TrimPrefix(child.CommandPath(), prefix)); ok {
				applyRegistryMetadata(child, id)
			}
			walk(child)
		}
	}
	walk(root)
}

func applyRegistryMetadata(cmd *cobra.Command, id string) {
	meta := commands.Registry[id]
	if meta.Description != "" {
		cmd.Short = meta.Description
	}
	if long := helpText(meta); long != "" {
		cmd.Long = long
	}
	if len(meta.Args) > 0 && cmd.ValidArgsFunction == nil {
		cmd.ValidArgsFunction = commands.CompletionFunc(id, completeEnvironments)
	}
}

// helpText is the long description followed by an indented Examples list.
func helpText(meta commands.Meta) string {
	body := meta.LongDesc
	if body == "" {
		body = meta.Description
	}
	if len(meta.Examples) == 0 {
		return meta.LongDesc
	}
	lines := make([]string, 0, len(meta.Examples)+2)
	lines = append(lines, body, "", "Examples:")
	for _, ex := range meta.Examples {
		lines = append(lines, "  "+ex)
	}
	return strings.Join(lines, "\n")
}
