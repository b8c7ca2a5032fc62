package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "CONFIGURATION"
	KindRemoteQuery   ErrorKind = "REMOTE_QUERY"
	KindTimeout       ErrorKind = "TIMEOUT"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindParse         ErrorKind = "PARSE"
	KindValidation    ErrorKind = "VALIDATION"

	// KindInternal labels unclassified errors in responses. No Error carries it.
	KindInternal ErrorKind = "INTERNAL"
)

// Error is a classified failure with a human-readable detail.
type Error struct {
	Kind    ErrorKind
	Detail  string
	Missing []string // configuration errors only
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Detail
	if len(e.Missing) > 0 {
		msg += " (missing: " + strings.Join(e.Missing, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewConfigurationError lists every missing configuration item.
func NewConfigurationError(missing ...string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Detail:  "required configuration is missing",
		Missing: append([]string(nil), missing...),
	}
}

// NewRemoteQueryError preserves the upstream reason verbatim.
func NewRemoteQueryError(state QueryState, reason string) *Error {
	if reason == "" {
		reason = fmt.Sprintf("query %s without a reason", strings.ToLower(string(state)))
	}
	return &Error{Kind: KindRemoteQuery, Detail: reason}
}

// NewTimeoutError reports a poll budget exhausted before a terminal state.
func NewTimeoutError(executionID string, last QueryState, budget fmt.Stringer) *Error {
	return &Error{
		Kind:   KindTimeout,
		Detail: fmt.Sprintf("query %s still %s after %s", executionID, last, budget),
	}
}

// NewNotFoundError reports a missing artifact.
func NewNotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// NewParseError reports an artifact that could not be decoded.
func NewParseError(detail string, err error) *Error {
	return &Error{Kind: KindParse, Detail: detail, Err: err}
}

// NewValidationError reports bad caller input.
func NewValidationError(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// KindOf returns the classification of err, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
