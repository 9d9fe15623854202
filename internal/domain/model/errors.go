package model

import "errors"

// Sentinel errors for the card pipeline. Adapters wrap these with %w.
var (
	// ErrInvalidFormat is returned when a URL is empty or not a repository URL.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrNotFound is returned when GitHub answers the metadata request with a
	// non-success status: the repository does not exist or is inaccessible.
	ErrNotFound = errors.New("repository not found")

	// ErrTransport is returned for network failures, timeouts and bodies
	// that cannot be decoded.
	ErrTransport = errors.New("transport error")
)

// ErrorKind classifies a pipeline failure for presentation.
type ErrorKind string

const (
	ErrorKindInvalidFormat ErrorKind = "invalid_format"
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindTransport     ErrorKind = "transport"
)

// User-visible messages, one per error kind.
const (
	MessageInvalidFormat = "Please enter a valid GitHub repository URL."
	MessageNotFound      = "Repository not found."
	MessageTransport     = "Error fetching repository data."
)

// ClassifyError maps an error from the pipeline to its kind. Errors that do
// not wrap a known sentinel are reported as transport failures.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return ErrorKindInvalidFormat
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	default:
		return ErrorKindTransport
	}
}

// Message returns the user-visible message for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorKindInvalidFormat:
		return MessageInvalidFormat
	case ErrorKindNotFound:
		return MessageNotFound
	default:
		return MessageTransport
	}
}
