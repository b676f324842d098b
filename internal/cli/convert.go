package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
)

var convertBackend string

var convertCmd = &cobra.Command{
	Use:  commands.UseLine("convert"),
	Args: commands.PositionalArgs("convert"),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe := &contentPipeline{}
		if convertBackend != "" {
			conv, err := newConverter(convertBackend)
			if err != nil {
				return err
			}
			pipe.conv = conv
		}

		resolved, err := pipe.resolve(cmd.Context(), contentFlags{fileName: "path", file: args[0]})
		if err != nil {
			return err
		}

		if isJSONOutput() {
			data := map[string]interface{}{
				"kind": resolved.Kind,
				"text": resolved.Text,
			}
			if len(resolved.Meta) > 0 {
				data["front_matter"] = resolved.Meta
			}
			outputSuccess(data, nil)
			return nil
		}
		fmt.Print(resolved.Text)
		if resolved.Text != "" && !strings.HasSuffix(resolved.Text, "\n") {
			fmt.Println()
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertBackend, "backend", "", "Converter backend (pandoc, builtin, auto)")
	rootCmd.AddCommand(convertCmd)
}
