package typai

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidEnum    = "invalid_enum"
)

// Sentinel errors. Use errors.Is to check.
var (
	ErrMaxDepth                = errors.New("typai: max depth exceeded")
	ErrInstructionsNotFollowed = errors.New("typai: model did not follow tool instructions")
	ErrUnexpectedResponse      = errors.New("typai: unexpected provider response")
	ErrUnhandledToolCall       = errors.New("typai: unhandled tool call")
)

// ValidationError is a single shape mismatch found while decoding.
type ValidationError struct {
	Path     Path
	Code     string
	Expected string // label of the type expected at Path
	Received any    // snapshot of the offending value (nil when absent)
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s at %s: expected %s, received %s", e.Code, e.Path.Pointer(), e.Expected, renderReceived(e.Received))
}

// ValidationErrors aggregates every mismatch of one decode attempt.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(errs), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. invalid_type at /age (expected number)
		fmt.Fprintf(b, "%s at %s (expected %s)", errs[i].Code, errs[i].Path.Pointer(), errs[i].Expected)
	}
	if len(errs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(errs))
	}
	return b.String()
}

// AsValidationErrors extracts ValidationErrors from an error chain.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// ReparseError reports text that is not parseable even by the tolerant parser.
type ReparseError struct {
	Path    Path
	RawText string
	Cause   error
}

func (e *ReparseError) Error() string {
	return fmt.Sprintf("typai: cannot parse JSON at %s: %v", e.Path.Pointer(), e.Cause)
}

func (e *ReparseError) Unwrap() error { return e.Cause }

// UnsupportedTypeError reports a descriptor node without a lowering or decode rule.
type UnsupportedTypeError struct {
	Kind Kind
}

func (e *UnsupportedTypeError) Error() string {
	return "typai: unsupported type node " + e.Kind.String()
}

// DepthError reports that recursion went past the configured ceiling.
type DepthError struct {
	Path  Path
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("typai: max depth %d exceeded at %s", e.Limit, e.Path.Pointer())
}

func (e *DepthError) Unwrap() error { return ErrMaxDepth }

// InstructionError reports that the model answered without calling the
// expected tool. It is not a parse or decode failure.
type InstructionError struct {
	Reason   string
	Response string // what the model returned instead, when known
}

func (e *InstructionError) Error() string {
	return "typai: AI did not follow instructions to use a tool: " + e.Reason
}

func (e *InstructionError) Unwrap() error { return ErrInstructionsNotFollowed }

// UnexpectedResponseError reports a provider response without usable choices.
type UnexpectedResponseError struct {
	FinishReason string
	Message      string
}

func (e *UnexpectedResponseError) Error() string {
	if e.Message != "" {
		return "typai: unexpected response: " + e.Message
	}
	return fmt.Sprintf("typai: unexpected response: finish_reason was %q instead of \"tool_calls\"", e.FinishReason)
}

func (e *UnexpectedResponseError) Unwrap() error { return ErrUnexpectedResponse }

// IsInstructionError reports whether err is or wraps an InstructionError.
func IsInstructionError(err error) bool {
	var ie *InstructionError
	return errors.As(err, &ie)
}

// IsReparseError reports whether err is or wraps a ReparseError.
func IsReparseError(err error) bool {
	var re *ReparseError
	return errors.As(err, &re)
}

func renderReceived(v any) string {
	if v == nil {
		return "null"
	}
	return renderScalar(v)
}
