package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/jirahhh/docs"
	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

const docsRoot = "guide"

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var docsCmd = &cobra.Command{
	Use:  commands.UseLine("docs"),
	Args: commands.PositionalArgs("docs"),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		topics, _ := listDocsTopics(builtindocs.FS)
		var ids []string
		for _, t := range topics {
			if strings.HasPrefix(t.ID, toComplete) {
				ids = append(ids, t.ID)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := listDocsTopics(builtindocs.FS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if len(args) == 0 {
			return outputDocsTopics(topics)
		}

		id := normalizeDocsTopic(args[0])
		for _, t := range topics {
			if t.ID == id {
				return outputDocsTopic(t)
			}
		}
		ids := make([]string, 0, len(topics))
		for _, t := range topics {
			ids = append(ids, t.ID)
		}
		return handleErrorWithDetails(ErrDocNotFound,
			fmt.Sprintf("no guide named '%s'", args[0]),
			"Available guides: "+strings.Join(ids, ", "),
			map[string]interface{}{"topic": args[0], "available": ids})
	},
}

func listDocsTopics(docsFS fs.FS) ([]docsTopic, error) {
	entries, err := fs.ReadDir(docsFS, docsRoot)
	if err != nil {
		return nil, err
	}
	var topics []docsTopic
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		topics = append(topics, docsTopic{ID: id, Title: docsTitle(docsFS, id)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

// docsTitle is the first level-one heading, or the id.
func docsTitle(docsFS fs.FS, id string) string {
	data, err := fs.ReadFile(docsFS, path.Join(docsRoot, id+".md"))
	if err != nil {
		return id
	}
	for _, line := range strings.Split(string(data), "\n") {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return id
}

func normalizeDocsTopic(raw string) string {
	id := strings.ToLower(strings.TrimSpace(raw))
	id = strings.TrimSuffix(id, ".md")
	return strings.ReplaceAll(id, "_", "-")
}

func outputDocsTopics(topics []docsTopic) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
		return nil
	}
	fmt.Println(ui.Header("Guides"))
	for _, t := range topics {
		fmt.Printf("  %-32s %s\n", "jirahhh docs "+t.ID, ui.Hint(t.Title))
	}
	return nil
}

func outputDocsTopic(topic docsTopic) error {
	data, err := fs.ReadFile(builtindocs.FS, path.Join(docsRoot, topic.ID+".md"))
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"topic":   topic.ID,
			"title":   topic.Title,
			"content": string(data),
		}, nil)
		return nil
	}

	text := string(data)
	if display := ui.DisplayFor(os.Stdout); display.IsTTY {
		if rendered, err := ui.RenderMarkdown(text, display.AvailableWidth(ui.MarkdownRenderMargin)); err == nil {
			text = rendered
		}
	}
	fmt.Print(text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
