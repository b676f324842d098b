package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/payload"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	updateSummary            string
	updateDescription        string
	updateDescriptionFile    string
	updateAcceptanceCriteria string
	updateFields             []string
	updateDryRun             bool
)

var updateCmd = &cobra.Command{
	Use:  commands.UseLine("update"),
	Args: commands.PositionalArgs("update"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()
		key := args[0]

		p, err := requireProfile()
		if err != nil {
			return err
		}

		in := payload.UpdateInput{}
		if cmd.Flags().Changed("summary") {
			in.Summary = &updateSummary
		}

		pipe := &contentPipeline{}
		if desc := (contentFlags{"description", "description-file", updateDescription, updateDescriptionFile}); desc.set() {
			resolved, err := pipe.resolve(ctx, desc)
			if err != nil {
				return err
			}
			in.Description = &resolved.Text
		}

		in.Custom, err = customFieldArgs(ctx, pipe, updateFields, updateAcceptanceCriteria)
		if err != nil {
			return err
		}

		body, err := payload.NewAssembler(p.Fields, logger).Update(in)
		if errors.Is(err, payload.ErrEmptyUpdate) {
			return handleError("", err, "Pass --summary, --description or --field")
		}
		if err != nil {
			return fail(err)
		}
		warnings := payloadWarnings(body)

		if updateDryRun {
			return printDryRun(p, body, warnings, start)
		}

		client, err := newClient(p)
		if err != nil {
			return err
		}
		ref, err := client.UpdateIssue(ctx, key, body)
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"id":      ref.ID,
				"key":     ref.Key,
				"self":    ref.Self,
				"url":     browseURL(p, ref.Key),
				"updated": body.FieldIDs(),
			}, warnings, &Meta{Env: p.Name, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Successf("Updated %s %s", ui.IssueKey(ref.Key), ui.Hint(fmt.Sprintf("(%d fields)", len(body.Fields)))))
		fmt.Println("  " + ui.URL(browseURL(p, ref.Key)))
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateSummary, "summary", "s", "", "New summary")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "Description text or file")
	updateCmd.Flags().StringVar(&updateDescriptionFile, "description-file", "", "Read the description from a file")
	updateCmd.Flags().StringVar(&updateAcceptanceCriteria, "acceptance-criteria", "", "Acceptance criteria text or file")
	updateCmd.Flags().StringArrayVarP(&updateFields, "field", "f", nil, "Set a custom field (alias=value)")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Print the request body instead of sending it")
	rootCmd.AddCommand(updateCmd)
}
