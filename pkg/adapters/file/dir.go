package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of writes from editors into a single event.
const DefaultDebounce = 100 * time.Millisecond

// DirSource is a Source backed by a directory on disk.
// It can also store schemas and watch the directory for changes.
type DirSource struct {
	*Source
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	mu       sync.Mutex
}

// DirOption configures a DirSource.
type DirOption func(*DirSource)

// WithDebounce sets how long a schema must be quiet before a change is reported.
func WithDebounce(d time.Duration) DirOption {
	return func(s *DirSource) {
		s.debounce = d
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(logger *slog.Logger) DirOption {
	return func(s *DirSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDirSource creates a DirSource for dir, which must exist.
func NewDirSource(dir string, opts ...DirOption) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory: %s is not a directory", dir)
	}

	s := &DirSource{
		Source:   New(os.DirFS(dir)),
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the watched directory.
func (s *DirSource) Dir() string {
	return s.dir
}

// Save writes <name>.yaml atomically.
// It writes to a temporary file in the same directory and renames it into place.
func (s *DirSource) Save(ctx context.Context, name string, data []byte) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpFile, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write schema %q: %w", name, err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync schema %q: %w", name, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Keep a single file per schema.
	if err := removeIfExists(filepath.Join(s.dir, name+".yml")); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name+".yaml")); err != nil {
		return fmt.Errorf("failed to move schema %q into place: %w", name, err)
	}
	return nil
}

// Delete removes every file for name.
func (s *DirSource) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ext := range Extensions {
		if err := removeIfExists(filepath.Join(s.dir, name+ext)); err != nil {
			return err
		}
	}
	return nil
}

func removeIfExists(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", p, err)
	}
	return nil
}

// Watch implements ports.Watchable.
// Each schema file change is reported once its debounce window has passed.
func (s *DirSource) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	s.logger.Debug("watching schema directory", "dir", s.dir)

	ch := make(chan string, 1)
	go s.run(ctx, watcher, ch)
	return ch, nil
}

func (s *DirSource) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Error("failed to close watcher", "error", err)
		}
	}()

	tick := s.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, ok := schemaName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			s.logger.Debug("schema file event", "schema", name, "op", event.Op.String())
			pending[name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("schema watcher error", "error", err)

		case now := <-ticker.C:
			for name, last := range pending {
				if now.Sub(last) < s.debounce {
					continue
				}
				delete(pending, name)
				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
