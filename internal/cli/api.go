package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/payload"
)

var (
	apiData     string
	apiBodyFile string
)

var apiCmd = &cobra.Command{
	Use:  commands.UseLine("api"),
	Args: commands.PositionalArgs("api"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()

		p, err := requireProfile()
		if err != nil {
			return err
		}

		data := []byte(apiData)
		if apiBodyFile != "" {
			pipe := &contentPipeline{}
			resolved, err := pipe.resolve(ctx, contentFlags{fileName: "body-file", file: apiBodyFile})
			if err != nil {
				return err
			}
			data, err = payload.InjectBody(data, resolved.Text)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
		}

		req, err := payload.AssembleRaw(args[0], args[1], data)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		client, err := newClient(p)
		if err != nil {
			return err
		}
		resp, err := client.Do(ctx, req)
		if err != nil {
			return fail(err)
		}

		if isJSONOutput() {
			outputSuccess(resp, &Meta{Env: p.Name, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		if raw, ok := resp.(*jira.RawResponse); ok {
			if raw.Text != "" {
				fmt.Println(raw.Text)
			}
			return nil
		}
		writeJSON(resp)
		return nil
	},
}

func init() {
	apiCmd.Flags().StringVar(&apiData, "data", "", "JSON request body")
	apiCmd.Flags().StringVar(&apiBodyFile, "body-file", "", "File whose content becomes the \"body\" key")
	rootCmd.AddCommand(apiCmd)
}
