package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/jirahhh/internal/ui"
)

// interactiveStdin returns stdin as a file when a person is at the keyboard.
// JSON mode is never interactive.
func interactiveStdin() (*os.File, bool) {
	if isJSONOutput() {
		return nil, false
	}
	f, ok := stdinReader.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil, false
	}
	return f, true
}

// confirmOverwrite asks before replacing path. Without a terminal the answer
// is no, so scripts must pass --force.
func confirmOverwrite(path string) bool {
	f, ok := interactiveStdin()
	if !ok || !isatty.IsTerminal(os.Stderr.Fd()) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s %s ", ui.Warningf("%s already exists. Overwrite?", path), ui.Hint("[y/N]"))
	answer, _ := bufio.NewReader(f).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
