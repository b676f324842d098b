package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/config"
	"github.com/aidanlsb/jirahhh/internal/payload"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	createProject            string
	createSummary            string
	createType               string
	createDescription        string
	createDescriptionFile    string
	createAcceptanceCriteria string
	createEpicName           string
	createParent             string
	createEpicLink           string
	createSecurity           string
	createFields             []string
	createDryRun             bool
)

// Aliases set by dedicated create and update flags.
const (
	aliasAcceptanceCriteria = "acceptance_criteria"
	aliasEpicName           = "epic_name"
	aliasParentLink         = "parent_link"
	aliasEpicLink           = "epic_link"
)

var createCmd = &cobra.Command{
	Use:  commands.UseLine("create"),
	Args: commands.PositionalArgs("create"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()

		p, err := requireProfile()
		if err != nil {
			return err
		}

		pipe := &contentPipeline{}
		description := ""
		summary := createSummary
		if desc := (contentFlags{"description", "description-file", createDescription, createDescriptionFile}); desc.set() {
			resolved, err := pipe.resolve(ctx, desc)
			if err != nil {
				return err
			}
			description = resolved.Text
			if summary == "" {
				summary = resolved.MetaString("summary", "title")
			}
		}

		custom, err := customFieldArgs(ctx, pipe, createFields, createAcceptanceCriteria)
		if err != nil {
			return err
		}
		setAlias(custom, aliasEpicName, createEpicName)
		setAlias(custom, aliasParentLink, createParent)
		setAlias(custom, aliasEpicLink, createEpicLink)

		body, err := payload.NewAssembler(p.Fields, logger).Create(payload.CreateInput{
			Project:     createProject,
			Summary:     summary,
			IssueType:   createType,
			Description: description,
			Security:    createSecurity,
			Custom:      custom,
		})
		if err != nil {
			return fail(err)
		}
		warnings := payloadWarnings(body)

		if createDryRun {
			return printDryRun(p, body, warnings, start)
		}

		client, err := newClient(p)
		if err != nil {
			return err
		}
		ref, err := client.CreateIssue(ctx, body)
		if err != nil {
			return fail(err)
		}
		url := browseURL(p, ref.Key)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"id":   ref.ID,
				"key":  ref.Key,
				"self": ref.Self,
				"url":  url,
			}, warnings, &Meta{Env: p.Name, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Successf("Created %s", ui.IssueKey(ref.Key)))
		fmt.Println("  " + ui.URL(url))
		return nil
	},
}

// customFieldArgs parses --field values and adds --acceptance-criteria, which
// goes through the content pipeline like a description.
func customFieldArgs(ctx context.Context, pipe *contentPipeline, fieldArgs []string, acceptance string) (map[string]any, error) {
	custom, err := payload.ParseFieldArgs(fieldArgs)
	if err != nil {
		return nil, handleError(ErrInvalidInput, err, "Use --field alias=value")
	}
	if acceptance != "" {
		resolved, err := pipe.resolve(ctx, contentFlags{inlineName: "acceptance-criteria", inline: acceptance})
		if err != nil {
			return nil, err
		}
		custom[aliasAcceptanceCriteria] = resolved.Text
	}
	return custom, nil
}

func setAlias(custom map[string]any, alias, value string) {
	if value != "" {
		custom[alias] = value
	}
}

// printDryRun shows the request body that would be sent.
func printDryRun(p *config.Profile, body *payload.Payload, warnings []Warning, start time.Time) error {
	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"fields": body.Fields,
		}, warnings, &Meta{Env: p.Name, DryRun: true, ElapsedMs: time.Since(start).Milliseconds()})
		return nil
	}
	printWarnings(warnings)
	fmt.Println(ui.Infof("Dry run against %s (%s), nothing sent", p.Name, p.URL))
	writeJSON(body)
	return nil
}

func browseURL(p *config.Profile, key string) string {
	return fmt.Sprintf("%s/browse/%s", strings.TrimRight(p.URL, "/"), key)
}

func init() {
	createCmd.Flags().StringVarP(&createProject, "project", "p", "", "Project key")
	createCmd.Flags().StringVarP(&createSummary, "summary", "s", "", "Issue summary")
	createCmd.Flags().StringVarP(&createType, "type", "t", "", "Issue type")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description text or file")
	createCmd.Flags().StringVar(&createDescriptionFile, "description-file", "", "Read the description from a file")
	createCmd.Flags().StringVar(&createAcceptanceCriteria, "acceptance-criteria", "", "Acceptance criteria text or file")
	createCmd.Flags().StringVar(&createEpicName, "epic-name", "", "Epic name")
	createCmd.Flags().StringVar(&createParent, "parent", "", "Parent issue key")
	createCmd.Flags().StringVar(&createEpicLink, "epic-link", "", "Epic issue key")
	createCmd.Flags().StringVar(&createSecurity, "security", "", "Security level alias")
	createCmd.Flags().StringArrayVarP(&createFields, "field", "f", nil, "Set a custom field (alias=value)")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the request body instead of sending it")
	rootCmd.AddCommand(createCmd)
}
