package markup

import "fmt"

// ConversionUnavailableError means markdown could not be converted, either because
// the converter is missing or because it failed.
type ConversionUnavailableError struct {
	Backend string
	Reason  string
	Err     error
}

func (e *ConversionUnavailableError) Error() string {
	msg := "markdown conversion unavailable"
	if e.Backend != "" {
		msg += " (" + e.Backend + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConversionUnavailableError) Unwrap() error { return e.Err }

// Suggestion is shown alongside the error in CLI output.
func (e *ConversionUnavailableError) Suggestion() string {
	if e.Backend == BackendPandoc {
		return "Install pandoc, or set converter.backend to builtin in the config file"
	}
	return "Pass the content as a .txt file to send it without conversion"
}
