// Package errors provides structured error types for the Wavetower compiler.
//
// # Error Codes
//
// Errors are identified by machine-readable codes that enable programmatic
// error handling. Each code names one failure mode of the WaveJSON grammar
// or of the compile pipeline:
//
//   - INVALID_WAVE_CHAR: wave string contains a character outside the alphabet
//   - DANGLING_EXTENSION: wave string starts with '.' (nothing to extend)
//   - DATA_MISMATCH: data entry count differs from the number of data spans
//   - FRACTIONAL_COLUMN: period/phase combination produces non-integral columns
//   - NODE_LENGTH_MISMATCH: node string length differs from wave string length
//   - DUPLICATE_NODE: the same node letter is declared on more than one signal
//   - UNKNOWN_NODE: an edge references a node letter no signal declares
//   - INVALID_EDGE_SYNTAX: edge string does not match the edge grammar
//   - EMPTY_DOCUMENT: document has no signal entries at all
//   - INVALID_DOCUMENT: document structure is not valid WaveJSON
//   - INVALID_SIGNAL: signal entry is structurally broken (e.g. negative period)
//   - INVALID_CONFIG: config section holds an unusable value (e.g. hscale < 1)
//
// # Usage
//
// Create errors with context:
//
//	err := errors.New(errors.ErrCodeUnknownNode, "edge %q references undeclared node %q", "a->b", "b")
//
// Wrap underlying causes:
//
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, jsonErr, "decoding document")
//
// Check error types:
//
//	if errors.Is(err, errors.ErrCodeDuplicateNode) {
//	    // handle duplicate node letters
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a category of error for programmatic handling.
type Code string

// Error codes for all Wavetower failure modes.
const (
	// ErrCodeInvalidWaveChar indicates a wave string character outside the
	// WaveJSON alphabet.
	ErrCodeInvalidWaveChar Code = "INVALID_WAVE_CHAR"

	// ErrCodeDanglingExtension indicates a wave string whose first character
	// is '.', which has no preceding value to extend.
	ErrCodeDanglingExtension Code = "DANGLING_EXTENSION"

	// ErrCodeDataMismatch indicates a signal whose data entries do not match
	// the number of data spans opened by its wave string.
	ErrCodeDataMismatch Code = "DATA_MISMATCH"

	// ErrCodeFractionalColumn indicates a period/phase combination that does
	// not land every transition on an integral column boundary.
	ErrCodeFractionalColumn Code = "FRACTIONAL_COLUMN"

	// ErrCodeNodeLengthMismatch indicates a node string whose length differs
	// from the signal's wave string length.
	ErrCodeNodeLengthMismatch Code = "NODE_LENGTH_MISMATCH"

	// ErrCodeDuplicateNode indicates a node letter declared by more than one
	// position across the document.
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"

	// ErrCodeUnknownNode indicates an edge string referencing a node letter
	// that no signal declares.
	ErrCodeUnknownNode Code = "UNKNOWN_NODE"

	// ErrCodeInvalidEdgeSyntax indicates an edge string that does not parse
	// under the edge grammar.
	ErrCodeInvalidEdgeSyntax Code = "INVALID_EDGE_SYNTAX"

	// ErrCodeEmptyDocument indicates a document with no signal entries.
	ErrCodeEmptyDocument Code = "EMPTY_DOCUMENT"

	// ErrCodeInvalidDocument indicates input that is not a structurally valid
	// WaveJSON document.
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"

	// ErrCodeInvalidSignal indicates a signal entry with an unusable field,
	// such as a non-positive period.
	ErrCodeInvalidSignal Code = "INVALID_SIGNAL"

	// ErrCodeInvalidConfig indicates a config section value that cannot be
	// honored, such as a fractional or negative hscale.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
)

// Error is a structured error with a code, message, and optional cause.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err or any error in its chain carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the Code from an error, or returns an empty Code if the
// error is not a structured Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix, suitable for
// display to end users. Falls back to Error() for unstructured errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
