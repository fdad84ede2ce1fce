package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by sources when no schema exists under a name.
	ErrNotFound = errors.New("schema not found")

	// ErrInvalidName is returned for empty names or names that look like paths.
	ErrInvalidName = errors.New("invalid schema name")

	// ErrMalformed is returned when the schema document cannot be decoded.
	ErrMalformed = errors.New("malformed schema")

	// ErrNoVariables is returned when the document lacks the 'variables' mapping.
	ErrNoVariables = errors.New("schema must define 'variables'")

	// ErrUnknownType is returned when a rule declares a type this package cannot coerce.
	ErrUnknownType = errors.New("unknown type")

	// ErrIncompatibleBound is returned for min/max on a non-numeric rule, or min > max.
	ErrIncompatibleBound = errors.New("incompatible bound")

	// ErrDuplicateKey is returned when two rules share a key.
	ErrDuplicateKey = errors.New("duplicate rule")
)

// SchemaError reports a schema that cannot be resolved, decoded or applied.
type SchemaError struct {
	Schema string // Schema name, if known
	Key    string // Offending rule key, if any
	Err    error  // Underlying cause, usually one of the Err* sentinels
}

func (e *SchemaError) Error() string {
	msg := e.Err.Error()
	if e.Key != "" {
		msg = fmt.Sprintf("variable %q: %s", e.Key, msg)
	}
	if e.Schema != "" {
		return fmt.Sprintf("schema %q: %s", e.Schema, msg)
	}
	return "schema: " + msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Errorf builds a SchemaError whose cause wraps sentinel with extra detail.
func Errorf(schemaName, key string, sentinel error, format string, args ...any) *SchemaError {
	return &SchemaError{
		Schema: schemaName,
		Key:    key,
		Err:    fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// IsSchemaError reports whether err is (or wraps) a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
