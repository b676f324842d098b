// Package content decides how a piece of input text becomes tracker-ready content.
//
// An Input is either a filesystem path or literal text. Classification depends only
// on that shape (and the path's extension), never on what the text says.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// InputKind tags an Input as a path or a literal.
type InputKind int

const (
	PathInput InputKind = iota
	LiteralInput
)

func (k InputKind) String() string {
	switch k {
	case PathInput:
		return "path"
	case LiteralInput:
		return "literal"
	}
	return fmt.Sprintf("InputKind(%d)", int(k))
}

// Input is a content source. Build it with Path or Literal.
type Input struct {
	kind  InputKind
	value string
}

// Path returns an Input referring to a file on disk.
func Path(p string) Input {
	return Input{kind: PathInput, value: p}
}

// Literal returns an Input holding text to be used verbatim.
func Literal(text string) Input {
	return Input{kind: LiteralInput, value: text}
}

// Kind reports whether the input is a path or a literal.
func (in Input) Kind() InputKind { return in.kind }

// Value is the path or the literal text.
func (in Input) Value() string { return in.value }

// Kind is the result of classifying an Input.
type Kind int

const (
	Markdown Kind = iota
	PlainWiki
	LiteralText
)

func (k Kind) String() string {
	switch k {
	case Markdown:
		return "markdown"
	case PlainWiki:
		return "plain_wiki"
	case LiteralText:
		return "literal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets Kind appear as its name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classification is the detected format of an Input.
type Classification struct {
	Kind Kind
	// Path is set for path inputs.
	Path string
}

// statFunc is swapped out by tests.
var statFunc = os.Stat

// markdownExts are the extensions treated as markdown. Anything else on disk is
// assumed to already be wiki markup.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Classify detects the format of in.
//
// A path must exist and be a regular file. Paths ending in .md are markdown, all
// other paths (including .txt and unknown extensions) are plain wiki markup.
// Literal inputs are always literal.
func Classify(in Input) (Classification, error) {
	switch in.kind {
	case LiteralInput:
		return Classification{Kind: LiteralText}, nil
	case PathInput:
		info, err := statFunc(in.value)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Classification{}, &NotFoundError{Path: in.value}
			}
			return Classification{}, fmt.Errorf("stat %s: %w", in.value, err)
		}
		if info.IsDir() {
			return Classification{}, &NotFoundError{Path: in.value, IsDir: true}
		}
		ext := strings.ToLower(filepath.Ext(in.value))
		if markdownExts[ext] {
			return Classification{Kind: Markdown, Path: in.value}, nil
		}
		return Classification{Kind: PlainWiki, Path: in.value}, nil
	}
	return Classification{}, fmt.Errorf("unsupported content input kind %s", in.kind)
}

// FromFlag builds an Input for flags that accept either inline text or a file path.
// A value naming an existing regular file becomes a path; anything else is literal.
func FromFlag(value string) Input {
	if value == "" || value == "-" {
		return Literal(value)
	}
	if info, err := statFunc(value); err == nil && info.Mode().IsRegular() {
		return Path(value)
	}
	return Literal(value)
}
