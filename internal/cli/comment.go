package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/payload"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	commentBody     string
	commentBodyFile string
	commentDryRun   bool
)

var commentCmd = &cobra.Command{
	Use:  commands.UseLine("comment"),
	Args: commands.PositionalArgs("comment"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()
		key := args[0]

		p, err := requireProfile()
		if err != nil {
			return err
		}

		flags := contentFlags{"body", "body-file", commentBody, commentBodyFile}
		if !flags.set() {
			return handleErrorMsg(ErrInvalidInput, "a comment body is required", "Pass --body or --body-file")
		}
		pipe := &contentPipeline{}
		resolved, err := pipe.resolve(ctx, flags)
		if err != nil {
			return err
		}

		body, err := payload.NewAssembler(p.Fields, logger).Comment(resolved.Text)
		if err != nil {
			return fail(err)
		}

		if commentDryRun {
			if isJSONOutput() {
				outputSuccess(body, &Meta{Env: p.Name, DryRun: true})
				return nil
			}
			fmt.Println(ui.Infof("Dry run against %s (%s), nothing sent", p.Name, p.URL))
			writeJSON(body)
			return nil
		}

		client, err := newClient(p)
		if err != nil {
			return err
		}
		comment, err := client.AddComment(ctx, key, body)
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"key":     key,
				"id":      comment.ID,
				"self":    comment.Self,
				"created": comment.Created,
			}, &Meta{Env: p.Name, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		fmt.Println(ui.Successf("Commented on %s", ui.IssueKey(key)))
		return nil
	},
}

func init() {
	commentCmd.Flags().StringVarP(&commentBody, "body", "b", "", "Comment text or file")
	commentCmd.Flags().StringVar(&commentBodyFile, "body-file", "", "Read the comment from a file")
	commentCmd.Flags().BoolVar(&commentDryRun, "dry-run", false, "Print the request body instead of sending it")
	rootCmd.AddCommand(commentCmd)
}
