package ports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/envguard/pkg/schema"
)

// SchemaSource retrieves raw schema documents.
// The facade decodes the bytes, so sources never interpret them.
type SchemaSource interface {
	// Load returns the document registered under name.
	// Returns schema.ErrNotFound if it does not exist and schema.ErrInvalidName
	// if name cannot be a schema name.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all available schemas, sorted.
	List(ctx context.Context) ([]string, error)
}

// SchemaStore is a writable SchemaSource.
type SchemaStore interface {
	SchemaSource

	// Save stores data under name, replacing any previous document.
	Save(ctx context.Context, name string, data []byte) error

	// Delete removes name. Deleting a missing schema is not an error.
	Delete(ctx context.Context, name string) error
}

// Watchable defines an interface for sources that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of every schema that changed.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}

// ValidateName rejects names that could escape a directory or key namespace.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", schema.ErrInvalidName)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", schema.ErrInvalidName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", schema.ErrInvalidName, name)
	}
	return nil
}

// ErrNotWatchable is returned when change notifications are requested from a source
// that cannot provide them.
var ErrNotWatchable = errors.New("schema source is not watchable")
