package ui

import (
	"bytes"
	"testing"
)

func TestSpinnerIsSilentWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinnerTo(&buf, "Searching")
	s.Start()
	s.Stop()
	s.Stop()

	if buf.Len() != 0 {
		t.Fatalf("expected no output for a non-terminal writer, got %q", buf.String())
	}
}
