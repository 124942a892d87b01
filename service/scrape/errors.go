package scrape

import (
	"errors"
	"fmt"
)

// ErrMalformedStore reports a store identifier with no ".com"-anchored name.
var ErrMalformedStore = errors.New("malformed store identifier")

// MissingFieldError reports a required field absent from a raw record.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

// CoercionError reports a raw value that could not be converted to its
// column type.
type CoercionError struct {
	Field string
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("field %q: cannot coerce %q: %v", e.Field, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// SchemaInitError is fatal: the sink could not ensure the target schema.
type SchemaInitError struct {
	Err error
}

func (e *SchemaInitError) Error() string { return "schema init: " + e.Err.Error() }

func (e *SchemaInitError) Unwrap() error { return e.Err }
