package markup

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Pandoc converts by running `pandoc -f gfm -t jira`.
type Pandoc struct {
	// Path is the pandoc executable.
	Path string
}

// Convert implements Converter.
func (p *Pandoc) Convert(ctx context.Context, markdown string) (string, error) {
	path := p.Path
	if path == "" {
		path = "pandoc"
	}
	bin, err := lookPath(path)
	if err != nil {
		return "", &ConversionUnavailableError{Backend: BackendPandoc, Reason: path + " not found", Err: err}
	}

	cmd := exec.CommandContext(ctx, bin, "-f", "gfm", "-t", "jira")
	cmd.Stdin = strings.NewReader(markdown)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		reason := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if reason == "" && errors.As(err, &exitErr) {
			reason = exitErr.String()
		}
		return "", &ConversionUnavailableError{Backend: BackendPandoc, Reason: reason, Err: err}
	}
	return stdout.String(), nil
}
