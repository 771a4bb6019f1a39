package core

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument is the sentinel matched by every *ArgumentError via errors.Is.
	ErrArgument = errors.New("invalid arguments")

	// ErrInvalidFlagSpec is the sentinel matched by every *InvalidFlagSpecError.
	ErrInvalidFlagSpec = errors.New("invalid flag spec")
)

// ArgumentError reports that a token sequence or a unified argument set could
// not be matched against a command. It is always user facing: the invocation
// was malformed, the command itself never ran.
type ArgumentError struct {
	Message string
}

// NewArgumentError formats an ArgumentError.
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

func (e *ArgumentError) Error() string { return e.Message }

// Is reports whether target is ErrArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// InvalidFlagSpecError is returned while canonicalizing a flag table when a
// value has none of the accepted shapes.
type InvalidFlagSpecError struct {
	Key   string
	Value any
}

func (e *InvalidFlagSpecError) Error() string {
	return fmt.Sprintf("invalid flag value for %q: %#v", e.Key, e.Value)
}

// Is reports whether target is ErrInvalidFlagSpec.
func (e *InvalidFlagSpecError) Is(target error) bool { return target == ErrInvalidFlagSpec }

// IsArgumentError reports whether err (or anything it wraps) is an ArgumentError.
func IsArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}
