package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/config"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:  commands.UseLine("config"),
	Args: cobra.NoArgs,
}

var configInitCmd = &cobra.Command{
	Use:  commands.UseLine("config_init"),
	Args: commands.PositionalArgs("config_init"),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := explicitConfigPath()
		if path == "" {
			path = config.DefaultPath()
		}

		force := configInitForce
		err := config.WriteTemplate(path, force)
		if errors.Is(err, config.ErrConfigExists) && confirmOverwrite(path) {
			force = true
			err = config.WriteTemplate(path, force)
		}
		if err != nil {
			return handleError("", err, "Pass --force to overwrite it")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "overwritten": force}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Wrote %s", ui.URL(path)))
		fmt.Println(ui.Hint("  Add an environment, then run: jirahhh auth set-token <env>"))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:  commands.UseLine("config_show"),
	Args: commands.PositionalArgs("config_show"),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := getConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		redacted := loaded.Redacted()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":   loaded.Path,
				"config": redacted,
			}, nil)
			return nil
		}
		if loaded.Path == "" {
			fmt.Println(ui.Hint("# no config file found, run 'jirahhh config init'"))
		} else {
			fmt.Println(ui.Hint("# " + loaded.Path))
		}
		out, err := yaml.Marshal(redacted)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(string(out))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:  commands.UseLine("config_path"),
	Args: commands.PositionalArgs("config_path"),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(explicitConfigPath())
		exists := path != ""
		if !exists {
			path = config.DefaultPath()
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "exists": exists}, nil)
			return nil
		}
		fmt.Println(path)
		if !exists {
			fmt.Println(ui.Hint("(not created yet)"))
		}
		return nil
	},
}

var configEnvsCmd = &cobra.Command{
	Use:  commands.UseLine("config_envs"),
	Args: commands.PositionalArgs("config_envs"),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := getConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		type envInfo struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Default bool   `json:"default"`
			Aliases int    `json:"aliases"`
			Levels  int    `json:"security_levels"`
		}
		var envs []envInfo
		for _, name := range loaded.EnvironmentNames() {
			fields := loaded.FieldMap(name)
			envs = append(envs, envInfo{
				Name:    name,
				URL:     loaded.Environments[name].URL,
				Default: name == loaded.DefaultEnv,
				Aliases: len(fields.Fields()),
				Levels:  len(fields.SecurityLevels()),
			})
		}

		if isJSONOutput() {
			if envs == nil {
				envs = []envInfo{}
			}
			outputSuccess(map[string]interface{}{"environments": envs}, &Meta{Count: len(envs)})
			return nil
		}
		if len(envs) == 0 {
			fmt.Println(ui.Hint("No environments configured. Run 'jirahhh config init'."))
			return nil
		}
		tbl := ui.NewTable(4)
		tbl.SetHeader("ENV", "URL", "ALIASES", "LEVELS")
		for _, e := range envs {
			name := e.Name
			if e.Default {
				name += " *"
			}
			tbl.AddRow(name, e.URL, fmt.Sprint(e.Aliases), fmt.Sprint(e.Levels))
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd, configEnvsCmd)
	rootCmd.AddCommand(configCmd)
}
