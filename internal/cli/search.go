package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	searchFields     []string
	searchMaxResults int
)

var searchCmd = &cobra.Command{
	Use:  commands.UseLine("search"),
	Args: commands.PositionalArgs("search"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if searchMaxResults < 1 {
			return handleErrorMsg(ErrInvalidInput, "--max-results must be at least 1", "")
		}

		p, err := requireProfile()
		if err != nil {
			return err
		}
		client, err := newClient(p)
		if err != nil {
			return err
		}

		stop := startSpinner("Searching")
		res, err := client.Search(cmd.Context(), args[0], splitList(searchFields), searchMaxResults)
		stop()
		if err != nil {
			return fail(err)
		}

		items := make([]map[string]interface{}, 0, len(res.Issues))
		for i := range res.Issues {
			items = append(items, searchItem(&res.Issues[i]))
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"total":  len(items),
				"issues": items,
			}, &Meta{Env: p.Name, Count: len(items), Total: res.Total, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}

		if len(items) == 0 {
			fmt.Println(ui.Hint("No issues found."))
			return nil
		}
		tbl := ui.NewIssueTable(ui.DisplayFor(os.Stdout))
		for i := range res.Issues {
			issue := &res.Issues[i]
			tbl.AddRow(ui.IssueRow{
				Key:      issue.Key,
				Type:     issue.Named("issuetype"),
				Status:   issue.Named("status"),
				Assignee: issue.DisplayName("assignee"),
				Summary:  issue.Text("summary"),
			})
		}
		fmt.Print(tbl.Render())
		if res.Total > len(items) {
			fmt.Println(ui.Hint(fmt.Sprintf("Showing %d of %d, raise --max-results for more", len(items), res.Total)))
		} else {
			fmt.Println(ui.Hint(ui.Count(len(items), "issue", "issues")))
		}
		return nil
	},
}

// searchItem is the compact form of a search hit.
func searchItem(issue *jira.Issue) map[string]interface{} {
	item := map[string]interface{}{
		"key":     issue.Key,
		"summary": issue.Text("summary"),
	}
	setNonEmpty(item, "status", issue.Named("status"))
	setNonEmpty(item, "type", issue.Named("issuetype"))
	setNonEmpty(item, "assignee", issue.DisplayName("assignee"))
	setNonEmpty(item, "priority", issue.Named("priority"))
	return item
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchFields, "fields", []string{"summary", "status", "issuetype", "assignee"}, "Comma separated field ids to fetch")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 50, "Maximum number of issues to return")
	rootCmd.AddCommand(searchCmd)
}
