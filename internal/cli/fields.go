package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/fieldmap"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	fieldsProject        string
	fieldsType           string
	fieldsCustomOnly     bool
	fieldsSuggestAliases bool
)

// fieldInfo is one entry of the fields listing.
type fieldInfo struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Custom     bool                   `json:"custom"`
	Schema     map[string]interface{} `json:"schema"`
	Alias      string                 `json:"alias,omitempty"`
	Required   *bool                  `json:"required,omitempty"`
	Operations []string               `json:"operations,omitempty"`
}

var fieldsCmd = &cobra.Command{
	Use:  commands.UseLine("fields"),
	Args: commands.PositionalArgs("fields"),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()

		p, err := requireProfile()
		if err != nil {
			return err
		}
		client, err := newClient(p)
		if err != nil {
			return err
		}

		stop := startSpinner("Fetching fields")
		infos, err := listFields(ctx, client, p.Fields)
		stop()
		if err != nil {
			return err
		}

		if fieldsSuggestAliases {
			block, err := suggestAliases(p.Name, infos)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"yaml": block}, &Meta{Env: p.Name})
				return nil
			}
			fmt.Print(block)
			return nil
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"total":  len(infos),
				"fields": infos,
			}, &Meta{Env: p.Name, Count: len(infos), ElapsedMs: time.Since(start).Milliseconds()})
			return nil
		}
		printFields(infos)
		return nil
	},
}

// listFields fetches every field, annotated with create metadata when a
// project is given. A createmeta failure leaves the fields unannotated.
func listFields(ctx context.Context, client *jira.Client, fm fieldmap.FieldMap) ([]fieldInfo, error) {
	all, err := client.Fields(ctx)
	if err != nil {
		return nil, fail(err)
	}

	var meta map[string]jira.FieldMeta
	if fieldsProject != "" {
		meta, err = client.CreateMeta(ctx, fieldsProject, fieldsType)
		if err != nil {
			logger.Debug("createmeta unavailable, listing fields without it", "project", fieldsProject, "error", err)
			meta = nil
		}
	}

	infos := make([]fieldInfo, 0, len(all))
	for _, f := range all {
		if fieldsCustomOnly && !f.Custom {
			continue
		}
		info := fieldInfo{ID: f.ID, Name: f.Name, Custom: f.Custom, Schema: f.Schema}
		if info.Schema == nil {
			info.Schema = map[string]interface{}{}
		}
		if alias, ok := fm.AliasFor(f.ID); ok {
			info.Alias = alias
		}
		if m, ok := meta[f.ID]; ok {
			required := m.Required
			info.Required = &required
			info.Operations = m.Operations
			if info.Operations == nil {
				info.Operations = []string{}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func printFields(infos []fieldInfo) {
	if len(infos) == 0 {
		fmt.Println(ui.Hint("No fields found."))
		return
	}
	tbl := ui.NewTable(5)
	tbl.SetHeader("ID", "NAME", "TYPE", "ALIAS", "REQUIRED")
	for _, f := range infos {
		typ, _ := f.Schema["type"].(string)
		required := ""
		if f.Required != nil && *f.Required {
			required = "yes"
		}
		tbl.AddRow(f.ID, f.Name, typ, f.Alias, required)
	}
	fmt.Print(tbl.String())
	fmt.Fprintln(os.Stderr, ui.Hint(ui.Count(len(infos), "field", "fields")))
}

// aliasFor turns a field name into a config alias such as "story_points".
func aliasFor(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// suggestAliases renders a custom_fields block for env covering every custom
// field. Existing aliases are kept and duplicate names get a numeric suffix.
func suggestAliases(env string, infos []fieldInfo) (string, error) {
	fields := &yaml.Node{Kind: yaml.MappingNode}
	used := map[string]bool{}

	custom := make([]fieldInfo, 0, len(infos))
	for _, f := range infos {
		if f.Custom {
			custom = append(custom, f)
		}
	}
	sort.SliceStable(custom, func(i, j int) bool { return custom[i].Name < custom[j].Name })

	for _, f := range custom {
		alias := f.Alias
		if alias == "" {
			alias = aliasFor(f.Name)
		}
		if alias == "" {
			alias = aliasFor(f.ID)
		}
		base := alias
		for n := 2; used[alias]; n++ {
			alias = fmt.Sprintf("%s_%d", base, n)
		}
		used[alias] = true

		fields.Content = append(fields.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: alias},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.ID, LineComment: "# " + f.Name},
		)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: env},
		{Kind: yaml.MappingNode, Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "custom_fields"},
			fields,
		}},
	}}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsProject, "project", "p", "", "Project key for create metadata")
	fieldsCmd.Flags().StringVarP(&fieldsType, "type", "t", "", "Issue type for create metadata")
	fieldsCmd.Flags().BoolVar(&fieldsCustomOnly, "custom", false, "Only list custom fields")
	fieldsCmd.Flags().BoolVar(&fieldsSuggestAliases, "suggest-aliases", false, "Print a custom_fields YAML block for the config")
	rootCmd.AddCommand(fieldsCmd)
}
