package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Declared type names.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeBool   = "bool"
)

// Type defines how a raw dotenv value is converted to its declared type.
type Type interface {
	// Name returns the declared type name (e.g., "string", "int").
	Name() string
	// Coerce converts the raw string, or explains why it cannot.
	Coerce(raw string) (any, error)
	// Numeric reports whether coerced values can be compared against bounds.
	Numeric() bool
}

// --- Built-in Type Implementations ---

// StringType accepts any value unchanged.
type StringType struct{}

func (t *StringType) Name() string  { return TypeString }
func (t *StringType) Numeric() bool { return false }

func (t *StringType) Coerce(raw string) (any, error) {
	return raw, nil
}

// IntType accepts base-10 integers with an optional leading '-'.
// Coerced values are int64.
type IntType struct{}

func (t *IntType) Name() string  { return TypeInt }
func (t *IntType) Numeric() bool { return true }

func (t *IntType) Coerce(raw string) (any, error) {
	if !isDecimal(raw) {
		return nil, fmt.Errorf("expected int, got %q", raw)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected int, got %q (out of range)", raw)
	}
	return n, nil
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// BoolType accepts true/1/yes and false/0/no, case-insensitively.
type BoolType struct{}

func (t *BoolType) Name() string  { return TypeBool }
func (t *BoolType) Numeric() bool { return false }

func (t *BoolType) Coerce(raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return nil, fmt.Errorf("expected bool, got %q", raw)
	}
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Int creates an integer type.
func Int() Type { return &IntType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// ParseType converts a declared type name to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case TypeString:
		return String(), nil
	case TypeInt:
		return Int(), nil
	case TypeBool:
		return Bool(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
}
