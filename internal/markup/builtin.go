package markup

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Builtin converts GitHub-flavored markdown to wiki markup in process, without pandoc.
type Builtin struct {
	md goldmark.Markdown
}

// NewBuiltin returns a Builtin converter.
func NewBuiltin() *Builtin {
	return &Builtin{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Convert implements Converter.
func (b *Builtin) Convert(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ConversionUnavailableError{Backend: BackendBuiltin, Err: err}
	}
	src := []byte(markdown)
	doc := b.md.Parser().Parse(text.NewReader(src))
	w := &wikiWriter{src: src}
	return w.children(doc) + "\n", nil
}

type wikiWriter struct {
	src []byte
}

// children renders the block children of parent. Blocks that end on their own
// line (headings, rules, code) are followed by a single newline, everything else
// by a blank line.
func (w *wikiWriter) children(parent ast.Node) string {
	var b strings.Builder
	var prev ast.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		s := w.block(c)
		if s == "" {
			continue
		}
		if prev != nil {
			switch prev.(type) {
			case *ast.Heading, *ast.ThematicBreak, *ast.FencedCodeBlock, *ast.CodeBlock:
				b.WriteString("\n")
			default:
				b.WriteString("\n\n")
			}
		}
		b.WriteString(s)
		prev = c
	}
	return b.String()
}

func (w *wikiWriter) block(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return w.inlines(n)
	case *ast.Heading:
		return fmt.Sprintf("h%d. %s", n.Level, w.inlines(n))
	case *ast.ThematicBreak:
		return "----"
	case *ast.FencedCodeBlock:
		open := "{code}"
		if lang := string(n.Language(w.src)); lang != "" {
			open = "{code:" + lang + "}"
		}
		return open + "\n" + w.lines(n) + "{code}"
	case *ast.CodeBlock:
		return "{code}\n" + w.lines(n) + "{code}"
	case *ast.Blockquote:
		return "{quote}\n" + w.children(n) + "\n{quote}"
	case *ast.List:
		return w.list(n, "")
	case *ast.HTMLBlock:
		return strings.TrimRight(w.lines(n), "\n")
	case *east.Table:
		return w.table(n)
	}
	return w.children(n)
}

func (w *wikiWriter) list(n *ast.List, prefix string) string {
	sigil := "*"
	if n.IsOrdered() {
		sigil = "#"
	}
	p := prefix + sigil

	var out []string
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		var head string
		var rest []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.List:
				rest = append(rest, w.list(c, p))
			case *ast.Paragraph, *ast.TextBlock:
				s := w.inlines(c)
				if head == "" && len(rest) == 0 {
					head = strings.ReplaceAll(s, "\n", " ")
				} else {
					rest = append(rest, s)
				}
			default:
				rest = append(rest, w.block(c))
			}
		}
		out = append(out, p+" "+head)
		out = append(out, rest...)
	}
	return strings.Join(out, "\n")
}

func (w *wikiWriter) table(n *east.Table) string {
	var rows []string
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		sep := "|"
		if _, ok := r.(*east.TableHeader); ok {
			sep = "||"
		}
		var b strings.Builder
		b.WriteString(sep)
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cell := strings.TrimSpace(w.inlines(c))
			if cell == "" {
				cell = " "
			}
			b.WriteString(cell)
			b.WriteString(sep)
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func (w *wikiWriter) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(w.src))
	}
	return b.String()
}

func (w *wikiWriter) inlines(parent ast.Node) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(w.inline(c))
	}
	return b.String()
}

func (w *wikiWriter) inline(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(w.src))
		switch {
		case n.HardLineBreak():
			s += "\\\\\n"
		case n.SoftLineBreak():
			s += " "
		}
		return s
	case *ast.String:
		return string(n.Value)
	case *ast.CodeSpan:
		return "{{" + w.inlines(n) + "}}"
	case *ast.Emphasis:
		if n.Level >= 2 {
			return "*" + w.inlines(n) + "*"
		}
		return "_" + w.inlines(n) + "_"
	case *east.Strikethrough:
		return "-" + w.inlines(n) + "-"
	case *ast.Link:
		dest := string(n.Destination)
		label := w.inlines(n)
		if label == "" || label == dest {
			return "[" + dest + "]"
		}
		return "[" + label + "|" + dest + "]"
	case *ast.Image:
		return "!" + string(n.Destination) + "!"
	case *ast.AutoLink:
		url := string(n.URL(w.src))
		if n.AutoLinkType == ast.AutoLinkEmail {
			return "[mailto:" + url + "]"
		}
		return "[" + url + "]"
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.src))
		}
		return b.String()
	case *east.TaskCheckBox:
		if n.IsChecked {
			return "[x] "
		}
		return "[ ] "
	}
	return w.inlines(n)
}
