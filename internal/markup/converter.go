// Package markup converts markdown into Jira wiki markup.
//
// Structural translation is done by a Converter backend (pandoc or the builtin
// goldmark renderer). Its output is then passed through Normalize, which repairs
// the constructs that do not come out in the target dialect.
package markup

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Converter translates markdown text into wiki markup.
type Converter interface {
	Convert(ctx context.Context, markdown string) (string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, markdown string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, markdown string) (string, error) {
	return f(ctx, markdown)
}

// Backend names.
const (
	BackendPandoc  = "pandoc"
	BackendBuiltin = "builtin"
	BackendAuto    = "auto"
)

// Options selects and configures a backend.
type Options struct {
	// Backend is pandoc, builtin or auto. Empty means pandoc.
	Backend string
	// PandocPath overrides the pandoc executable. Empty means "pandoc" on PATH.
	PandocPath string
	Logger     *slog.Logger
}

// Pipeline runs a backend and normalizes its output.
type Pipeline struct {
	Backend Converter
}

// Convert implements Converter.
func (p Pipeline) Convert(ctx context.Context, markdown string) (string, error) {
	if p.Backend == nil {
		return "", &ConversionUnavailableError{Reason: "no converter backend"}
	}
	out, err := p.Backend.Convert(ctx, markdown)
	if err != nil {
		return "", err
	}
	return Normalize(out), nil
}

var lookPath = exec.LookPath

// New returns a normalizing Pipeline for the backend named in opts.
func New(opts Options) (Pipeline, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pandocPath := opts.PandocPath
	if pandocPath == "" {
		pandocPath = "pandoc"
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendPandoc:
		logger.Debug("markup backend", "backend", BackendPandoc, "path", pandocPath)
		return Pipeline{Backend: &Pandoc{Path: pandocPath}}, nil
	case BackendBuiltin:
		logger.Debug("markup backend", "backend", BackendBuiltin)
		return Pipeline{Backend: NewBuiltin()}, nil
	case BackendAuto:
		if resolved, err := lookPath(pandocPath); err == nil {
			logger.Debug("markup backend", "backend", BackendPandoc, "path", resolved)
			return Pipeline{Backend: &Pandoc{Path: resolved}}, nil
		}
		logger.Debug("pandoc not found, using builtin markup backend", "path", pandocPath)
		return Pipeline{Backend: NewBuiltin()}, nil
	}
	return Pipeline{}, fmt.Errorf("unknown converter backend %q (want pandoc, builtin or auto)", opts.Backend)
}
