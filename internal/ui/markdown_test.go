package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	guide := "# Custom fields\n\nSet `story_points` with:\n\n```\njirahhh create -f story_points=5\n```\n"
	tests := []struct {
		name  string
		width int
		want  []string
	}{
		{"fixed width", 60, []string{"Custom fields", "story_points", "jirahhh create -f story_points=5"}},
		{"zero width falls back", 0, []string{"Custom fields"}},
		{"negative width falls back", -5, []string{"story_points"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderMarkdown(guide, tt.width)
			if err != nil {
				t.Fatalf("RenderMarkdown: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
				t.Errorf("want exactly one trailing newline, got %q", out[max(0, len(out)-5):])
			}
		})
	}
}

func TestGuideStyleWithoutColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	style := guideStyle()
	if style.Heading.Color != nil {
		t.Errorf("heading color = %q with NO_COLOR set", *style.Heading.Color)
	}
	if style.H1.Underline == nil || !*style.H1.Underline {
		t.Error("H1 should stay underlined without color")
	}
}
