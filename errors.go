package distill

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateAssignment indicates an option was assigned more than once
	// within a single parse pass.
	ErrDuplicateAssignment = errors.New("distill: option assigned more than once")
	// ErrUnknownOption indicates input referenced option names the schema
	// does not declare.
	ErrUnknownOption = errors.New("distill: unknown option")
	// ErrInvalidValue indicates a value failed its option's declared
	// constraint or type conversion.
	ErrInvalidValue = errors.New("distill: invalid option value")
	// ErrMissingKey indicates a lookup referenced a name absent from both
	// state layers.
	ErrMissingKey = errors.New("distill: missing key")
	// ErrNotDivisible indicates a strict partition of a quantity that does
	// not divide evenly across the world size.
	ErrNotDivisible = errors.New("distill: quantity not divisible by world size")
)

// DuplicateAssignmentError reports a second assignment to the same option
// within one parse pass, citing both values.
type DuplicateAssignmentError struct {
	Name     string
	Previous any
	Value    any
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("distill: option %q appears several times: %v, %v", e.Name, e.Previous, e.Value)
}

func (e *DuplicateAssignmentError) Unwrap() error { return ErrDuplicateAssignment }

// UnknownOptionsError enumerates every unrecognised option name from one
// parse pass in a single error.
type UnknownOptionsError struct {
	Names []string
}

func (e *UnknownOptionsError) Error() string {
	return fmt.Sprintf("distill: unexpected options: %s", strings.Join(e.Names, ", "))
}

func (e *UnknownOptionsError) Unwrap() error { return ErrUnknownOption }

// InvalidValueError reports a value that failed an option's constraint or
// could not be converted to the option's declared kind.
type InvalidValueError struct {
	Option     string
	Constraint string
	Value      string
	Err        error
}

func (e *InvalidValueError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("distill: option %q expected value %s, but got %q", e.Option, e.Constraint, e.Value)
	}
	if e.Err != nil {
		return fmt.Sprintf("distill: option %q: invalid value %q: %v", e.Option, e.Value, e.Err)
	}
	return fmt.Sprintf("distill: option %q: invalid value %q", e.Option, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// MissingKeyError reports a lookup of a name present in neither the extras
// nor the declared layer.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("distill: no value named %q in extras or declared options", e.Key)
}

func (e *MissingKeyError) Unwrap() error { return ErrMissingKey }

// MissingTemplateKeyError reports a directory-name template placeholder with
// no value in the merged snapshot.
type MissingTemplateKeyError struct {
	Template string
	Key      string
}

func (e *MissingTemplateKeyError) Error() string {
	return fmt.Sprintf("distill: template %q references %q, which is absent from the merged snapshot", e.Template, e.Key)
}

func (e *MissingTemplateKeyError) Unwrap() error { return ErrMissingKey }

// NotDivisibleError reports a strict partition failure.
type NotDivisibleError struct {
	Name      string
	Value     int
	WorldSize int
}

func (e *NotDivisibleError) Error() string {
	return fmt.Sprintf("distill: expected %s=%d to be divisible by the world size=%d", e.Name, e.Value, e.WorldSize)
}

func (e *NotDivisibleError) Unwrap() error { return ErrNotDivisible }
