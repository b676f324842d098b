package content

import "fmt"

// NotFoundError is returned when a referenced content file does not exist.
type NotFoundError struct {
	Path  string
	IsDir bool
}

func (e *NotFoundError) Error() string {
	if e.IsDir {
		return fmt.Sprintf("content file not found: %s is a directory", e.Path)
	}
	return fmt.Sprintf("content file not found: %s", e.Path)
}

// Suggestion is shown alongside the error in CLI output.
func (e *NotFoundError) Suggestion() string {
	return "Check the path, or pass the text inline instead of a file"
}
