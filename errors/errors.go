package errors

import (
	stderrors "errors"
	"fmt"
)

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount    = fmt.Errorf("invalid field count")
	ErrInvalidDuration      = fmt.Errorf("invalid duration")
	ErrInvalidStartTime     = fmt.Errorf("invalid start time")
	ErrInvalidEndTime       = fmt.Errorf("invalid end time")
	ErrInvalidNumberOfCalls = fmt.Errorf("invalid number of calls")
	ErrInvalidPriority      = fmt.Errorf("invalid priority")
	ErrInvalidSLA           = fmt.Errorf("invalid service level target")
	ErrInvalidServiceTime   = fmt.Errorf("invalid service time")
	ErrEmptyRecord          = fmt.Errorf("empty record")
)

// Staffing calculation failures. The erlang package returns these internally
// and collapses them to a zero result at its public boundary.
var (
	// ErrInvalidInput reports negative or NaN counts, rates or handle times.
	ErrInvalidInput = fmt.Errorf("invalid input")
	// ErrUndefined reports a formula with no defined value for its inputs,
	// such as zero servers.
	ErrUndefined = fmt.Errorf("undefined result")
	// ErrNoSolution reports a search that exhausted its iteration bound.
	ErrNoSolution = fmt.Errorf("no solution within iteration bound")
)

// ErrInvalidConfig is wrapped by configuration validation failures.
var ErrInvalidConfig = fmt.Errorf("invalid configuration")

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
