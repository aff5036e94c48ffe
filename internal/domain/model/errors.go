package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for record decoding.
var (
	// ErrDecode reports a body that is not valid JSON of the expected shape.
	ErrDecode = errors.New("decode failed")
	// ErrSchema reports a record that is missing a required field.
	ErrSchema = errors.New("schema violation")
)

// SchemaError locates a schema violation. It matches ErrSchema via errors.Is.
type SchemaError struct {
	Record string // e.g. "projects[2]"
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("%s: field %q %s", e.Record, e.Field, e.Reason)
}

// Unwrap exposes the sentinel kind.
func (e *SchemaError) Unwrap() error { return ErrSchema }
