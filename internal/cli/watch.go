package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before the file is read again.
const settleDelay = 100 * time.Millisecond

// RunWatch validates path, then validates again whenever the file or a schema
// changes, until ctx is cancelled.
func RunWatch(ctx context.Context, guard *envguard.Guard, path string, opts CheckOptions, out Output, logger *slog.Logger) error {
	if _, err := ParseFormat(opts.Format); err != nil {
		return err
	}

	schemaEvents, err := guard.Watch(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNotWatchable) {
			return err
		}
		logger.Debug("schema source is not watchable, watching the env file only")
	}

	fileEvents, err := watchFile(ctx, path, logger)
	if err != nil {
		return err
	}

	for {
		if err := RunValidate(ctx, guard, path, opts, out); err != nil && !errors.Is(err, ErrCheckFailed) {
			out.printSystemMessage("%v", err)
		}
		out.printSystemMessage("Waiting for changes...")

		select {
		case <-ctx.Done():
			logStop(ctx, logger)
			return nil
		case name, ok := <-schemaEvents:
			if !ok {
				schemaEvents = nil
				continue
			}
			logger.Info("Change detected, revalidating", "schema", name)
			out.printSystemMessage("Change detected in schema '%s'.", name)
		case _, ok := <-fileEvents:
			if !ok {
				return nil
			}
			logger.Info("Change detected, revalidating", "file", path)
			out.printSystemMessage("Change detected in '%s'.", filepath.Base(path))
		}

		select {
		case <-ctx.Done():
			logStop(ctx, logger)
			return nil
		case <-time.After(settleDelay):
		}
		drain(fileEvents)
	}
}

func logStop(ctx context.Context, logger *slog.Logger) {
	if sig := ShutdownSignal(ctx); sig != nil {
		logger.Info("Stopping watcher (signal received)", "signal", sig.String())
		return
	}
	logger.Info("Stopping watcher")
}

// watchFile reports writes to path. The parent directory is watched so that
// editors replacing the file by rename are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("env file watcher error", "error", err)
			}
		}
	}()
	return out, nil
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
