// Package diagnostics defines the structured errors and warnings the
// checker returns. Nothing in the engine prints; every non-fatal finding
// is handed back as a Diagnostic value and the caller decides how to
// render it.
package diagnostics

import "fmt"

// ErrorCode identifies a diagnostic kind. T-codes are hard errors that
// abort checking of the current definition; W-codes never block.
type ErrorCode string

const (
	ErrUnknownType       ErrorCode = "T001"
	ErrArityMismatch     ErrorCode = "T002"
	ErrTypeMismatch      ErrorCode = "T003"
	ErrOccursCheck       ErrorCode = "T004"
	ErrDimensionMismatch ErrorCode = "T005"
	ErrOperationConflict ErrorCode = "T006"
	ErrUnknownOperation  ErrorCode = "T007"
	ErrBadPattern        ErrorCode = "T008"

	WarnNonExhaustiveMatch  ErrorCode = "W001"
	WarnUnreachablePattern  ErrorCode = "W002"
	WarnDuplicateStructure  ErrorCode = "W003"
	WarnDuplicateImplements ErrorCode = "W004"
	WarnDuplicateData       ErrorCode = "W005"
)

// DiagnosticError is a hard error with a machine-readable code.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DiagnosticError) Unwrap() error { return e.Wrapped }

// NewError builds a DiagnosticError from a format string.
func NewError(code ErrorCode, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code to an underlying error, keeping it available
// through errors.As.
func WrapError(code ErrorCode, err error) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: err.Error(), Wrapped: err}
}

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a non-fatal finding returned alongside a successful
// result: a non-exhaustive match, an unreachable case, a skipped
// duplicate definition.
type Diagnostic struct {
	Code     ErrorCode
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

// Warn builds a warning-severity Diagnostic.
func Warn(code ErrorCode, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}
