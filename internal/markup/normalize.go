package markup

import (
	"regexp"
	"strings"
)

// line is one line of converter output. code marks lines inside a code region,
// which the list and link passes must not touch. cont marks indented text that
// continues the list item above it.
type line struct {
	text string
	code bool
	item bool
	cont bool
}

var (
	fenceOpenRe  = regexp.MustCompile("^[ \t]*(`{3,}|~{3,})[ \t]*([^`\\s]*)")
	fenceCloseRe = regexp.MustCompile("^[ \t]*(`{3,}|~{3,})[ \t]*$")
	wikiBlockRe  = regexp.MustCompile(`^[ \t]*\{(code|noformat)(?::[^}]*)?\}`)

	mdItemRe   = regexp.MustCompile(`^([ \t]*)([-+*]|\d{1,9}[.)])[ \t]+(.*)$`)
	wikiItemRe = regexp.MustCompile(`^[*#]+[ \t]+\S`)
	ruleRe     = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)

	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)
	linkRe     = regexp.MustCompile(`\[([^\]\[]+)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)
	autoLinkRe = regexp.MustCompile(`<((?:https?|ftp|mailto):[^>\s]+)>`)
)

// Normalize repairs converter output so it is valid Jira wiki markup:
//
//   - markdown list markers become * and # sigils, repeated to show depth
//   - ``` and ~~~ fences become {code} blocks, keeping the language
//   - blank lines between list items are removed so the list stays one block
//   - markdown links, images and autolinks become [text|url], !src! and [url]
//
// Code regions ({code}, {noformat} and fenced blocks) are left alone, as is text
// inside {{monospace}}. Headings are not touched: "# " is a numbered list item.
func Normalize(wiki string) string {
	wiki = strings.ReplaceAll(wiki, "\r\n", "\n")
	lines := markCode(strings.Split(wiki, "\n"))
	lines = rewriteLists(lines)
	lines = collapseListGaps(lines)
	lines = rewriteLinks(lines)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.text)
	}
	return strings.TrimRight(b.String(), " \t\n")
}

// markCode rewrites markdown fences into {code} blocks and flags every line that
// sits inside a code region.
func markCode(raw []string) []line {
	out := make([]line, 0, len(raw))

	var fence string // open markdown fence, e.g. "```"
	var block string // open wiki block name, e.g. "code"

	for _, text := range raw {
		switch {
		case fence != "":
			if m := fenceCloseRe.FindStringSubmatch(text); m != nil && m[1][0] == fence[0] && len(m[1]) >= len(fence) {
				out = append(out, line{text: "{code}", code: true})
				fence = ""
				continue
			}
			out = append(out, line{text: text, code: true})

		case block != "":
			out = append(out, line{text: text, code: true})
			if strings.Contains(text, "{"+block+"}") {
				block = ""
			}

		default:
			if m := fenceOpenRe.FindStringSubmatch(text); m != nil && !(m[1][0] == '`' && strings.Contains(text[len(m[0]):], "`")) {
				fence = m[1]
				open := "{code}"
				if m[2] != "" {
					open = "{code:" + m[2] + "}"
				}
				out = append(out, line{text: open, code: true})
				continue
			}
			if m := wikiBlockRe.FindStringSubmatchIndex(text); m != nil {
				name := text[m[2]:m[3]]
				out = append(out, line{text: text, code: true})
				if !strings.Contains(text[m[1]:], "{"+name+"}") {
					block = name
				}
				continue
			}
			out = append(out, line{text: text})
		}
	}

	if fence != "" {
		out = append(out, line{text: "{code}", code: true})
	}
	return out
}

type listLevel struct {
	indent int
	sigil  byte
}

// rewriteLists turns markdown list markers into wiki sigils. Each distinct
// indentation opens a nesting level; an item's prefix is the sigils of every
// enclosing level followed by its own. An ordered marker other than "1" does
// not interrupt a paragraph, so a wrapped line such as "2024. It went well."
// stays text.
func rewriteLists(lines []line) []line {
	var stack []listLevel
	inParagraph := false

	for i := range lines {
		l := &lines[i]
		if l.code {
			stack = nil
			inParagraph = false
			continue
		}

		if strings.TrimSpace(l.text) == "" {
			inParagraph = false
			continue
		}
		if ruleRe.MatchString(l.text) {
			l.text = "----"
			stack = nil
			inParagraph = false
			continue
		}

		if m := mdItemRe.FindStringSubmatch(l.text); m != nil && !(inParagraph && cannotInterrupt(m[2])) {
			indent := indentWidth(m[1])
			sigil := byte('*')
			if m[2][0] >= '0' && m[2][0] <= '9' {
				sigil = '#'
			}

			for len(stack) > 0 && stack[len(stack)-1].indent > indent {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 && stack[len(stack)-1].indent == indent {
				stack[len(stack)-1].sigil = sigil
			} else {
				stack = append(stack, listLevel{indent: indent, sigil: sigil})
			}

			prefix := make([]byte, len(stack))
			for j, lvl := range stack {
				prefix[j] = lvl.sigil
			}
			l.text = string(prefix) + " " + m[3]
			l.item = true
			inParagraph = false
			continue
		}

		if wikiItemRe.MatchString(l.text) {
			l.item = true
			stack = nil
			inParagraph = false
			continue
		}

		// Indented text continues the current item; anything else ends the list.
		if len(stack) > 0 && indentWidth(leadingSpace(l.text)) > 0 {
			l.cont = true
			inParagraph = false
			continue
		}
		stack = nil
		inParagraph = true
	}
	return lines
}

// cannotInterrupt reports whether marker is an ordered marker that cannot
// start a list in the middle of a paragraph.
func cannotInterrupt(marker string) bool {
	if marker[0] < '0' || marker[0] > '9' {
		return false
	}
	return strings.TrimLeft(marker[:len(marker)-1], "0") != "1"
}

// collapseListGaps drops blank lines that separate two list items, counting
// indented continuation text as part of its item.
func collapseListGaps(lines []line) []line {
	out := make([]line, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isBlank(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}

		j := i
		for j < len(lines) && isBlank(lines[j]) {
			j++
		}
		prevItem := len(out) > 0 && inList(out[len(out)-1])
		nextItem := j < len(lines) && inList(lines[j])
		if !(prevItem && nextItem) {
			out = append(out, lines[i:j]...)
		}
		i = j
	}
	return out
}

func rewriteLinks(lines []line) []line {
	for i := range lines {
		if lines[i].code {
			continue
		}
		lines[i].text = outsideMonospace(lines[i].text, relink)
	}
	return lines
}

func relink(s string) string {
	s = imageRe.ReplaceAllString(s, "!$2!")
	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		text, url := strings.TrimSpace(sub[1]), sub[2]
		if text == url {
			return "[" + url + "]"
		}
		return "[" + text + "|" + url + "]"
	})
	return autoLinkRe.ReplaceAllString(s, "[$1]")
}

// outsideMonospace applies fn to the parts of s that are not inside {{...}}.
func outsideMonospace(s string, fn func(string) string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 4
		b.WriteString(fn(s[:start]))
		b.WriteString(s[start:end])
		s = s[end:]
	}
	b.WriteString(fn(s))
	return b.String()
}

func inList(l line) bool {
	return l.item || l.cont
}

func isBlank(l line) bool {
	return !l.code && strings.TrimSpace(l.text) == ""
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func indentWidth(ws string) int {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}
