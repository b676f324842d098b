package markup

import (
	"context"
	"testing"
)

func TestBuiltinConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading followed by list",
			in:   "# Title\n- a\n- b",
			want: "h1. Title\n* a\n* b",
		},
		{
			name: "heading levels",
			in:   "## Two\n\n### Three",
			want: "h2. Two\nh3. Three",
		},
		{
			name: "inline styles",
			in:   "**bold** and _em_ and `code` and ~~gone~~",
			want: "*bold* and _em_ and {{code}} and -gone-",
		},
		{
			name: "links and images",
			in:   "[docs](https://x.io) ![logo](https://x.io/l.png)",
			want: "[docs|https://x.io] !https://x.io/l.png!",
		},
		{
			name: "nested lists",
			in:   "- a\n  - b\n- c",
			want: "* a\n** b\n* c",
		},
		{
			name: "ordered list",
			in:   "1. one\n2. two",
			want: "# one\n# two",
		},
		{
			name: "loose list stays one block",
			in:   "- a\n\n- b",
			want: "* a\n* b",
		},
		{
			name: "fenced code",
			in:   "```go\nfmt.Println(\"hi\")\n```",
			want: "{code:go}\nfmt.Println(\"hi\")\n{code}",
		},
		{
			name: "paragraphs separated by blank line",
			in:   "one\n\ntwo",
			want: "one\n\ntwo",
		},
		{
			name: "table",
			in:   "| a | b |\n|---|---|\n| 1 | 2 |",
			want: "||a||b||\n|1|2|",
		},
		{
			name: "blockquote",
			in:   "> quoted",
			want: "{quote}\nquoted\n{quote}",
		},
		{
			name: "thematic break",
			in:   "above\n\n---\n\nbelow",
			want: "above\n\n----\nbelow",
		},
		{
			name: "wrapped paragraph starting a line with a year",
			in:   "We shipped it in\n2024. It went well.",
			want: "We shipped it in 2024. It went well.",
		},
	}

	conv := Pipeline{Backend: NewBuiltin()}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := conv.Convert(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Convert returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuiltinHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBuiltin().Convert(ctx, "# x"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Run("default is pandoc", func(t *testing.T) {
		p, err := New(Options{})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, ok := p.Backend.(*Pandoc); !ok {
			t.Errorf("expected pandoc backend, got %T", p.Backend)
		}
	})

	t.Run("builtin", func(t *testing.T) {
		p, err := New(Options{Backend: "builtin"})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, ok := p.Backend.(*Builtin); !ok {
			t.Errorf("expected builtin backend, got %T", p.Backend)
		}
	})

	t.Run("auto falls back to builtin without pandoc", func(t *testing.T) {
		prev := lookPath
		t.Cleanup(func() { lookPath = prev })
		lookPath = func(string) (string, error) { return "", errNotFound }

		p, err := New(Options{Backend: "auto"})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, ok := p.Backend.(*Builtin); !ok {
			t.Errorf("expected builtin backend, got %T", p.Backend)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := New(Options{Backend: "asciidoc"}); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
