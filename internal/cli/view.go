package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/fieldmap"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var viewFields []string

// viewAliasLabels renames aliases in view output.
var viewAliasLabels = map[string]string{
	aliasParentLink: "parent",
}

var viewCmd = &cobra.Command{
	Use:  commands.UseLine("view"),
	Args: commands.PositionalArgs("view"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		p, err := requireProfile()
		if err != nil {
			return err
		}
		client, err := newClient(p)
		if err != nil {
			return err
		}

		stop := startSpinner("Fetching " + args[0])
		issue, err := client.GetIssue(cmd.Context(), args[0], splitList(viewFields))
		stop()
		if err != nil {
			return fail(err)
		}

		view := issueView(issue, p.Fields)
		if isJSONOutput() {
			outputSuccess(view, &Meta{Env: p.Name, ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		printIssueView(view, browseURL(p, issue.Key))
		return nil
	},
}

// issueView flattens an issue into the fields a reader cares about. Custom
// fields with a configured alias appear under the alias.
func issueView(issue *jira.Issue, fields fieldmap.FieldMap) map[string]interface{} {
	view := map[string]interface{}{
		"key":         issue.Key,
		"id":          issue.ID,
		"self":        issue.Self,
		"summary":     issue.Text("summary"),
		"status":      issue.Named("status"),
		"type":        issue.Named("issuetype"),
		"description": issue.Text("description"),
	}
	setNonEmpty(view, "assignee", issue.DisplayName("assignee"))
	setNonEmpty(view, "reporter", issue.DisplayName("reporter"))
	setNonEmpty(view, "priority", issue.Named("priority"))

	if sec, ok := issue.Fields["security"].(map[string]interface{}); ok {
		view["security"] = map[string]interface{}{"id": sec["id"], "name": sec["name"]}
	}

	for alias, id := range fields.Fields() {
		value, ok := issue.Fields[id]
		if !ok || isEmptyValue(value) {
			continue
		}
		if label, ok := viewAliasLabels[alias]; ok {
			alias = label
		}
		view[alias] = value
	}

	if labels, ok := issue.Fields["labels"].([]interface{}); ok && len(labels) > 0 {
		view["labels"] = labels
	}
	if comps, ok := issue.Fields["components"].([]interface{}); ok && len(comps) > 0 {
		names := make([]string, 0, len(comps))
		for _, c := range comps {
			if obj, ok := c.(map[string]interface{}); ok {
				if name, ok := obj["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
		view["components"] = names
	}
	return view
}

func setNonEmpty(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	}
	return false
}

// viewHeaderKeys are printed first, in this order.
var viewHeaderKeys = []string{"status", "type", "assignee", "reporter", "priority", "security", "labels", "components"}

func printIssueView(view map[string]interface{}, url string) {
	fmt.Printf("%s  %s\n", ui.IssueKey(fmt.Sprint(view["key"])), ui.Header(fmt.Sprint(view["summary"])))
	fmt.Println("  " + ui.URL(url))
	fmt.Println()

	shown := map[string]bool{"key": true, "id": true, "self": true, "summary": true, "description": true}
	const width = 14
	for _, k := range viewHeaderKeys {
		if v, ok := view[k]; ok {
			fmt.Printf("%s %s\n", ui.Label(k, width), formatViewValue(v))
		}
		shown[k] = true
	}

	var rest []string
	for k := range view {
		if !shown[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Printf("%s %s\n", ui.Label(k, width), formatViewValue(view[k]))
	}

	if desc, _ := view["description"].(string); strings.TrimSpace(desc) != "" {
		fmt.Println()
		fmt.Println(ui.Header("Description"))
		fmt.Println(desc)
	}
}

func formatViewValue(v interface{}) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ", ")
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, formatViewValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		for _, k := range []string{"name", "value", "displayName", "key"} {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
		return fmt.Sprint(t)
	case string:
		if strings.Contains(t, "\n") {
			return "\n" + t
		}
		return t
	}
	return fmt.Sprint(v)
}

func init() {
	viewCmd.Flags().StringSliceVar(&viewFields, "fields", nil, "Comma separated field ids to fetch (default: all)")
	rootCmd.AddCommand(viewCmd)
}
