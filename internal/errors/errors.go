// Package errors defines the typed errors surfaced by an analysis run.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a stable error code for a failure mode.
type Code string

const (
	// FetchFailed indicates the repository could not be cloned or opened.
	// Fatal: aborts the run.
	FetchFailed Code = "FETCH_FAILED"
	// FileReadFailed indicates a single file could not be read.
	// Recoverable: the file is skipped.
	FileReadFailed Code = "FILE_READ_FAILED"
	// ParseFailed indicates a single file could not be parsed.
	// Recoverable: the file is skipped and contributes nothing downstream.
	ParseFailed Code = "PARSE_FAILED"
	// AggregationFailed indicates metrics or insight synthesis failed after
	// file analysis. Fatal: aborts the run.
	AggregationFailed Code = "AGGREGATION_FAILED"
	// CacheFailed indicates the result store rejected a put or get.
	CacheFailed Code = "CACHE_FAILED"
	// InternalError indicates an unexpected failure.
	InternalError Code = "INTERNAL_ERROR"
)

// AnalysisError carries a stable code, a human-readable message, and the
// underlying cause.
type AnalysisError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// New creates an AnalysisError.
func New(code Code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates an AnalysisError with a formatted message.
func Newf(code Code, cause error, format string, args ...interface{}) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// IsCode reports whether err (or any error in its chain) is an AnalysisError
// with the given code.
func IsCode(err error, code Code) bool {
	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// CodeOf returns the code of the first AnalysisError in the chain, or
// InternalError if none is found.
func CodeOf(err error) Code {
	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}
