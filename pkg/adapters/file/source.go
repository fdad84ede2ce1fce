package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
)

// Extensions lists the accepted schema file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml"}

// Source implements ports.SchemaSource over an fs.FS.
// Each schema is a top-level file named <name>.yaml or <name>.yml.
type Source struct {
	fsys fs.FS
}

// New creates a Source reading from fsys.
func New(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// Load reads the schema document for name.
func (s *Source) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	for _, ext := range Extensions {
		data, err := fs.ReadFile(s.fsys, name+ext)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read schema %q: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", schema.ErrNotFound, name)
}

// List returns the names of every schema file, sorted and without duplicates.
func (s *Source) List(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := schemaName(entry.Name()); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// schemaName strips a known extension from a file name.
func schemaName(file string) (string, bool) {
	ext := path.Ext(file)
	if !slices.Contains(Extensions, ext) {
		return "", false
	}
	name := strings.TrimSuffix(file, ext)
	if ports.ValidateName(name) != nil || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}
