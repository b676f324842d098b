package cli

import (
	"context"
	"errors"

	"github.com/aidanlsb/jirahhh/internal/config"
	"github.com/aidanlsb/jirahhh/internal/content"
	"github.com/aidanlsb/jirahhh/internal/credential"
	"github.com/aidanlsb/jirahhh/internal/fieldmap"
	"github.com/aidanlsb/jirahhh/internal/jira"
	"github.com/aidanlsb/jirahhh/internal/markup"
	"github.com/aidanlsb/jirahhh/internal/payload"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Content errors
	ErrFileNotFound          = "FILE_NOT_FOUND"
	ErrConversionUnavailable = "CONVERSION_UNAVAILABLE"

	// Field errors
	ErrUnknownFieldAlias    = "UNKNOWN_FIELD_ALIAS"
	ErrUnknownSecurityLevel = "UNKNOWN_SECURITY_LEVEL"
	ErrDuplicateField       = "DUPLICATE_FIELD"
	ErrRequiredField        = "REQUIRED_FIELD_MISSING"
	ErrNothingToUpdate      = "NOTHING_TO_UPDATE"

	// Environment and config errors
	ErrUnknownEnvironment = "UNKNOWN_ENVIRONMENT"
	ErrEnvNotSpecified    = "ENV_NOT_SPECIFIED"
	ErrConfigInvalid      = "CONFIG_INVALID"
	ErrConfigExists       = "CONFIG_EXISTS"

	// Credential errors
	ErrTokenNotFound   = "TOKEN_NOT_FOUND"
	ErrCredentialStore = "CREDENTIAL_STORE_ERROR"

	// Server errors
	ErrAPIError = "API_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// Docs errors
	ErrDocNotFound = "DOC_NOT_FOUND"

	// General errors
	ErrCancelled = "CANCELLED"
	ErrInternal  = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnFieldShadowed    = payload.WarnFieldShadowed
	WarnEnvNotConfigured = "ENV_NOT_CONFIGURED"
)

// commandError carries the code and hint reported for a failed command.
type commandError struct {
	code       string
	err        error
	suggestion string
	details    interface{}
}

func (e *commandError) Error() string { return e.err.Error() }

func (e *commandError) Unwrap() error { return e.err }

type suggester interface{ Suggestion() string }

type detailer interface{ Details() map[string]interface{} }

// handleError tags err with a code and suggestion for reporting. An empty code
// is derived from the error's type, and an empty suggestion from the error's
// own Suggestion method when it has one.
func handleError(code string, err error, suggestion string) error {
	if err == nil {
		return nil
	}
	var existing *commandError
	if errors.As(err, &existing) && code == "" && suggestion == "" {
		return err
	}
	if code == "" {
		code = classifyError(err)
	}
	var s suggester
	if suggestion == "" && errors.As(err, &s) {
		suggestion = s.Suggestion()
	}
	ce := &commandError{code: code, err: err, suggestion: suggestion}
	var d detailer
	if errors.As(err, &d) {
		ce.details = d.Details()
	}
	return ce
}

// handleErrorMsg reports a plain message under code.
func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

// handleErrorWithDetails reports a message with structured details.
func handleErrorWithDetails(code, message, suggestion string, details interface{}) error {
	return &commandError{code: code, err: errors.New(message), suggestion: suggestion, details: details}
}

// fail reports err under the code its type maps to.
func fail(err error) error {
	return handleError("", err, "")
}

// classifyError maps an error to its stable code.
func classifyError(err error) string {
	var (
		ce          *commandError
		notFound    *content.NotFoundError
		unavailable *markup.ConversionUnavailableError
		badAlias    *fieldmap.UnknownFieldAliasError
		badLevel    *fieldmap.UnknownSecurityLevelError
		dupField    *fieldmap.DuplicateFieldError
		badEnv      *config.UnknownEnvironmentError
		badProfile  *config.InvalidProfileError
		missing     *payload.MissingFieldsError
		apiErr      *jira.APIError
	)
	switch {
	case errors.As(err, &ce):
		return ce.code
	case errors.As(err, &notFound):
		return ErrFileNotFound
	case errors.As(err, &unavailable):
		return ErrConversionUnavailable
	case errors.As(err, &badAlias):
		return ErrUnknownFieldAlias
	case errors.As(err, &badLevel):
		return ErrUnknownSecurityLevel
	case errors.As(err, &dupField):
		return ErrDuplicateField
	case errors.As(err, &badEnv):
		return ErrUnknownEnvironment
	case errors.Is(err, config.ErrNoEnvironment):
		return ErrEnvNotSpecified
	case errors.As(err, &badProfile):
		return ErrConfigInvalid
	case errors.Is(err, config.ErrConfigExists):
		return ErrConfigExists
	case errors.As(err, &missing):
		return ErrRequiredField
	case errors.Is(err, payload.ErrEmptyUpdate), errors.Is(err, payload.ErrEmptyComment):
		return ErrNothingToUpdate
	case errors.Is(err, credential.ErrNotFound):
		return ErrTokenNotFound
	case errors.As(err, &apiErr):
		return ErrAPIError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCancelled
	}
	return ErrInternal
}

// errorInfo builds the envelope error for err.
func errorInfo(err error) *ErrorInfo {
	var ce *commandError
	if !errors.As(err, &ce) {
		// Errors raised by cobra itself (unknown flags, wrong arg counts).
		ce = &commandError{code: ErrInvalidInput, err: err, suggestion: "Run with --help for usage"}
		if code := classifyError(err); code != ErrInternal {
			ce = handleError(code, err, "").(*commandError)
		}
	}
	return &ErrorInfo{
		Code:       ce.code,
		Message:    ce.err.Error(),
		Details:    ce.details,
		Suggestion: ce.suggestion,
	}
}
