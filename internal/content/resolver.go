package content

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/aidanlsb/jirahhh/internal/markup"
)

// Resolved is content ready to be placed in a request.
type Resolved struct {
	Text string
	Kind Kind
	// Meta holds front matter parsed from a markdown file, if any.
	Meta map[string]any
}

// MetaString returns the first non-empty string front matter value among keys.
func (r *Resolved) MetaString(keys ...string) string {
	if r == nil {
		return ""
	}
	for _, k := range keys {
		if s, ok := r.Meta[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Resolver turns an Input into final wiki markup.
type Resolver struct {
	Converter markup.Converter
	Logger    *slog.Logger

	readFile func(string) ([]byte, error)
}

// NewResolver returns a Resolver that converts markdown with conv.
func NewResolver(conv markup.Converter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{Converter: conv, Logger: logger, readFile: os.ReadFile}
}

// Resolve classifies in and produces its final text. Markdown files are converted,
// plain wiki files and literals are passed through untouched.
func (r *Resolver) Resolve(ctx context.Context, in Input) (*Resolved, error) {
	c, err := Classify(in)
	if err != nil {
		return nil, err
	}

	switch c.Kind {
	case LiteralText:
		return &Resolved{Text: in.Value(), Kind: LiteralText}, nil

	case PlainWiki:
		data, err := r.read(c.Path)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("using file as wiki markup", "path", c.Path)
		return &Resolved{Text: string(data), Kind: PlainWiki}, nil

	case Markdown:
		data, err := r.read(c.Path)
		if err != nil {
			return nil, err
		}
		meta := map[string]any{}
		body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
		if err != nil {
			return nil, fmt.Errorf("parse front matter in %s: %w", c.Path, err)
		}
		if r.Converter == nil {
			return nil, &markup.ConversionUnavailableError{Reason: "no converter configured"}
		}
		r.Logger.Debug("converting markdown", "path", c.Path, "bytes", len(body))
		text, err := r.Converter.Convert(ctx, string(body))
		if err != nil {
			return nil, err
		}
		return &Resolved{Text: text, Kind: Markdown, Meta: meta}, nil
	}

	return nil, fmt.Errorf("unsupported content kind %s", c.Kind)
}

func (r *Resolver) read(path string) ([]byte, error) {
	readFile := r.readFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	data, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
