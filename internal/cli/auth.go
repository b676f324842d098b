package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aidanlsb/jirahhh/internal/commands"
	"github.com/aidanlsb/jirahhh/internal/credential"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

var authCmd = &cobra.Command{
	Use:  commands.UseLine("auth"),
	Args: cobra.NoArgs,
}

var authSetTokenCmd = &cobra.Command{
	Use:  commands.UseLine("auth_set-token"),
	Args: commands.PositionalArgs("auth_set-token"),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := args[0]
		warnings := unconfiguredEnvWarning(env)

		token, err := readToken(env)
		if err != nil {
			return err
		}
		if err := newTokenStore().Set(env, token); err != nil {
			return credentialError(err)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"env": env, "stored": true}, warnings, &Meta{Env: env})
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Successf("Stored token for %s", ui.Bold.Render(env)))
		return nil
	},
}

var authDeleteTokenCmd = &cobra.Command{
	Use:  commands.UseLine("auth_delete-token"),
	Args: commands.PositionalArgs("auth_delete-token"),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := args[0]
		if err := newTokenStore().Delete(env); err != nil {
			return credentialError(err)
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"env": env, "deleted": true}, &Meta{Env: env})
			return nil
		}
		fmt.Println(ui.Successf("Deleted token for %s", ui.Bold.Render(env)))
		return nil
	},
}

// readToken prompts without echo on a terminal, otherwise reads one line.
func readToken(env string) (string, error) {
	var token string
	if f, ok := interactiveStdin(); ok {
		fmt.Fprintf(os.Stderr, "Token for %s: ", env)
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", handleError(ErrInvalidInput, fmt.Errorf("read token: %w", err), "")
		}
		token = string(data)
	} else {
		line, err := bufio.NewReader(stdinReader).ReadString('\n')
		if err != nil && line == "" {
			return "", handleErrorMsg(ErrInvalidInput, "no token given on stdin", "Pipe the token in, e.g. printf '%s' \"$TOKEN\" | jirahhh auth set-token "+env)
		}
		token = line
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", handleErrorMsg(ErrInvalidInput, "token is empty", "")
	}
	return token, nil
}

func credentialError(err error) error {
	if errors.Is(err, credential.ErrNotFound) {
		return handleError(ErrTokenNotFound, err, "Nothing is stored for this environment")
	}
	return handleError(ErrCredentialStore, err, "Set JIRAHHH_KEYRING_BACKEND=file to use the encrypted file backend")
}

// unconfiguredEnvWarning flags tokens stored for environments the config
// does not define. The token is stored regardless.
func unconfiguredEnvWarning(env string) []Warning {
	loaded, err := getConfig()
	if err != nil {
		return nil
	}
	if _, ok := loaded.Environments[env]; ok {
		return nil
	}
	return []Warning{{
		Code:    WarnEnvNotConfigured,
		Message: fmt.Sprintf("environment '%s' is not in the config file", env),
	}}
}

func init() {
	authCmd.AddCommand(authSetTokenCmd, authDeleteTokenCmd)
	rootCmd.AddCommand(authCmd)
}
