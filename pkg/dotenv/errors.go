package dotenv

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSeparator is reported for a non-comment line without '='.
	ErrMissingSeparator = errors.New("missing '='")

	// ErrEmptyKey is reported when the text before '=' is blank.
	ErrEmptyKey = errors.New("empty key")

	// ErrDuplicateKey is reported at the second occurrence of a key.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ParseError describes a malformed line in the source text.
type ParseError struct {
	Line int    // 1-based line number
	Key  string // Offending key, when one could be read
	Err  error  // One of the Err* sentinels
}

func (e *ParseError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("line %d: %s %q", e.Line, e.Err, e.Key)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
