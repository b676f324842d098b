package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aidanlsb/jirahhh/internal/config"
	"github.com/aidanlsb/jirahhh/internal/content"
	"github.com/aidanlsb/jirahhh/internal/credential"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/markup"
	"github.com/aidanlsb/jirahhh/internal/ui"
)

// tokenStore is the subset of the keyring used by the CLI.
type tokenStore interface {
	Get(env string) (string, error)
	Set(env, token string) error
	Delete(env string) error
}

var (
	newTokenStore = func() tokenStore {
		return credential.NewStore(credential.Options{
			Backend: settings.KeyringBackend,
			Dir:     settings.KeyringDir,
		})
	}

	// stdinReader is where "-" content and piped tokens are read from.
	stdinReader io.Reader = os.Stdin
)

// requireProfile resolves the environment selected by --env or default_env.
// It never touches the network.
func requireProfile() (*config.Profile, error) {
	loaded, err := getConfig()
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "Fix the config file or point --config at another one")
	}
	p, err := config.Resolve(envName, loaded, config.ResolveOptions{
		URL:      urlFlag,
		Proxy:    proxyFlag,
		Settings: settings,
		Token:    func(env string) (string, error) { return newTokenStore().Get(env) },
		Logger:   logger,
	})
	if err != nil {
		return nil, fail(err)
	}
	return p, nil
}

// newClient builds the transport for a resolved profile.
func newClient(p *config.Profile) (*jira.Client, error) {
	c, err := jira.NewClient(jira.Options{
		BaseURL:  p.URL,
		Token:    p.Token.Reveal(),
		Email:    p.Email,
		Proxy:    p.Proxy,
		IPv4Only: p.IPv4Only,
		Logger:   logger,
	})
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}
	return c, nil
}

// newConverter picks the markup backend: override, then JIRAHHH_CONVERTER,
// then converter.backend in the config.
func newConverter(override string) (markup.Converter, error) {
	loaded, err := getConfig()
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}
	backend := firstNonEmpty(override, settings.Converter, loaded.Converter.Backend)
	conv, err := markup.New(markup.Options{
		Backend:    backend,
		PandocPath: loaded.Converter.PandocPath,
		Logger:     logger,
	})
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "Valid converter backends are pandoc, builtin and auto")
	}
	return conv, nil
}

// contentFlags is a pair of mutually exclusive flags: inline text (or a path)
// and an explicit file.
type contentFlags struct {
	inlineName string
	fileName   string
	inline     string
	file       string
}

func (f contentFlags) set() bool { return f.inline != "" || f.file != "" }

// input builds the content Input. "-" reads stdin and is used verbatim.
func (f contentFlags) input() (content.Input, error) {
	if f.inline != "" && f.file != "" {
		return content.Input{}, handleErrorMsg(ErrInvalidInput,
			fmt.Sprintf("--%s and --%s are mutually exclusive", f.inlineName, f.fileName), "")
	}
	if f.file == "-" {
		data, err := io.ReadAll(stdinReader)
		if err != nil {
			return content.Input{}, handleError(ErrInvalidInput, fmt.Errorf("read stdin: %w", err), "")
		}
		return content.Literal(string(data)), nil
	}
	if f.file != "" {
		return content.Path(f.file), nil
	}
	return content.FromFlag(f.inline), nil
}

// contentPipeline resolves content flags. The converter is only built when a
// markdown file actually needs converting.
type contentPipeline struct {
	resolver *content.Resolver
	conv     markup.Converter
}

func (c *contentPipeline) convert(ctx context.Context, md string) (string, error) {
	if c.conv == nil {
		conv, err := newConverter("")
		if err != nil {
			return "", err
		}
		c.conv = conv
	}
	return c.conv.Convert(ctx, md)
}

func (c *contentPipeline) resolve(ctx context.Context, f contentFlags) (*content.Resolved, error) {
	in, err := f.input()
	if err != nil {
		return nil, err
	}
	if c.resolver == nil {
		c.resolver = content.NewResolver(markup.ConverterFunc(c.convert), logger)
	}
	resolved, err := c.resolver.Resolve(ctx, in)
	if err != nil {
		return nil, fail(err)
	}
	return resolved, nil
}

// startSpinner shows progress on stderr in text mode and returns its stop func.
func startSpinner(message string) func() {
	if isJSONOutput() {
		return func() {}
	}
	s := ui.NewSpinner(message)
	s.Start()
	return s.Stop
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// splitList parses comma separated flag values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
