package namegen

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable generation error code.
type ErrorCode string

const (
	// CodeMalformedDescriptor is reported for descriptors that cannot yield an
	// unambiguous dispatch: empty names, unions without variants, duplicate variants.
	CodeMalformedDescriptor ErrorCode = "malformed_descriptor"

	// CodeUnsupportedKind is reported for descriptor kinds outside
	// Record, TaggedUnion and OverlapUnion.
	CodeUnsupportedKind ErrorCode = "unsupported_kind"
)

var (
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	ErrUnsupportedKind     = errors.New("unsupported kind")
)

// Error is returned when a descriptor cannot be turned into a capability.
type Error struct {
	Code ErrorCode

	// Type is the offending type's name as written in the descriptor.
	Type string

	Message string

	// Causes are the underlying validation errors, if any.
	Causes []error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Type, e.Message)
}

// Is makes errors.Is(err, ErrMalformedDescriptor) and
// errors.Is(err, ErrUnsupportedKind) match on Code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedDescriptor:
		return e.Code == CodeMalformedDescriptor
	case ErrUnsupportedKind:
		return e.Code == CodeUnsupportedKind
	}
	return false
}

func (e *Error) Unwrap() []error {
	return e.Causes
}
