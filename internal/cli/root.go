// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/config"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var (
	// Global flags
	configPath string
	verbose    bool
	envName    string // Named environment from config
	urlFlag    string // Base URL override
	proxyFlag  string // Proxy override

	// Resolved values
	settings config.Settings
	logger   = slog.New(slog.DiscardHandler)
	cfg      *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jirahhh",
	Short: "Create and update Jira issues from markdown",
	Long: `jirahhh creates, updates, views, comments on and searches Jira issues.

Markdown files are converted to Jira wiki markup, custom fields are set by
alias, and every command can target any environment in the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load .env: %w", err), "")
		}
		settings = config.LoadSettings()
		logger = newLogger(os.Stderr, settings.LogLevel, verbose)

		path := strings.TrimPrefix(cmd.CommandPath(), rootCmd.Name()+" ")
		if !commands.NeedsEnvironment(path) {
			for _, name := range []string{"env", "url", "proxy"} {
				if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
					logger.Warn("flag has no effect on this command", "flag", "--"+name, "command", path)
				}
			}
		}
		return nil
	},
}

// Execute runs the CLI. Errors are reported before returning, so callers
// only need the exit status.
func Execute(ctx context.Context) error {
	syncRegistryMetadata(rootCmd)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/jirahhh/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "Environment from config (default: default_env)")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Jira base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&proxyFlag, "proxy", "", "Proxy URL (overrides config)")

	_ = rootCmd.RegisterFlagCompletionFunc("env", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeEnvironments(commands.DynamicEnvironments), cobra.ShellCompDirectiveNoFileComp
	})
}

// newLogger builds the stderr logger. JIRAHHH_LOG_LEVEL wins over -v.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(strings.ToUpper(level))); err == nil {
			lvl = parsed
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// getConfig loads the config file once per process.
func getConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	loaded, err := config.Load(explicitConfigPath())
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "path", loaded.Path, "environments", loaded.EnvironmentNames())
	cfg = loaded
	return cfg, nil
}

// explicitConfigPath is --config, then JIRAHHH_CONFIG.
func explicitConfigPath() string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	return settings.ConfigPath
}

// completeEnvironments is the commands.DynamicSource for argument and --env
// completion.
func completeEnvironments(kind string) []string {
	if kind != commands.DynamicEnvironments {
		return nil
	}
	loaded, err := config.Load(explicitConfigPath())
	if err != nil {
		return nil
	}
	return loaded.EnvironmentNames()
}

// reportError prints err as a JSON envelope on stdout, or as text on stderr.
func reportError(err error) {
	info := errorInfo(err)
	if jsonOutput {
		outputJSON(Response{OK: false, Error: info})
		return
	}
	fmt.Fprintln(os.Stderr, ui.Error(info.Message))
	if info.Suggestion != "" {
		fmt.Fprintln(os.Stderr, ui.Hint("  "+info.Suggestion))
	}
}

// printWarnings writes warnings to stderr in text mode.
func printWarnings(warnings []Warning) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
	}
}
