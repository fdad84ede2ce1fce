package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/internal/config"
	"github.com/aretw0/envguard/pkg/adapters/chain"
	"github.com/aretw0/envguard/pkg/adapters/file"
	redisAdapter "github.com/aretw0/envguard/pkg/adapters/redis"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/aretw0/envguard/pkg/ports"
)

// ErrReadOnly is returned when a write is requested but no writable layer is configured.
var ErrReadOnly = errors.New("no writable schema store configured (use --schemas or --redis)")

// Stack is the schema source assembled from the configuration.
//
// Layers are consulted in order: the schema directory, then redis, then the
// embedded schemas. Store is the first writable layer, or nil.
type Stack struct {
	Source  ports.SchemaSource
	Store   ports.SchemaStore
	closers []func() error
}

// Close releases the connections held by the layers.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// BuildStack creates the layered schema source described by cfg.
func BuildStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	stack := &Stack{}
	var layers []ports.SchemaSource

	if cfg.SchemasDir != "" {
		dir, err := file.NewDirSource(cfg.SchemasDir, file.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		layers = append(layers, dir)
		stack.Store = dir
		logger.Debug("schema directory enabled", "dir", cfg.SchemasDir)
	}

	if cfg.Redis.Enabled() {
		opts := []redisAdapter.Option{redisAdapter.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.Redis.TTL))
		}
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		layers = append(layers, store)
		stack.closers = append(stack.closers, store.Close)
		if stack.Store == nil {
			stack.Store = store
		}
		logger.Debug("redis schema store enabled", "addr", cfg.Redis.Addr)
	}

	layers = append(layers, envguard.BuiltinSource())
	stack.Source = chain.New(layers...)
	return stack, nil
}

// NewGuard builds the stack and a Guard over it. The caller closes the stack.
func NewGuard(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.Hooks) (*envguard.Guard, *Stack, error) {
	stack, err := BuildStack(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	guard, err := envguard.New(
		envguard.WithSource(stack.Source),
		envguard.WithDefaultSchema(cfg.DefaultSchema),
		envguard.WithLogger(logger),
		envguard.WithHooks(hooks),
	)
	if err != nil {
		_ = stack.Close()
		return nil, nil, fmt.Errorf("error initializing envguard: %w", err)
	}
	return guard, stack, nil
}
