package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/envguard/pkg/domain"
)

// LogHooks returns hooks that write one structured line per event.
// Failures are logged at warn level, successes at debug.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			if e.Outcome != domain.OutcomeOK {
				logger.WarnContext(ctx, "validate failed",
					"schema", e.Schema,
					"outcome", e.Outcome,
					"error", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "validate",
				"schema", e.Schema,
				"missing", e.Missing,
				"invalid", e.Invalid,
				"extra", e.Extra,
				"validated", e.Validated,
				"duration", e.Duration,
			)
		},
		OnCompare: func(ctx context.Context, e *domain.CompareEvent) {
			if e.Outcome != domain.OutcomeOK {
				logger.WarnContext(ctx, "compare failed",
					"schema", e.Schema,
					"outcome", e.Outcome,
					"error", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "compare",
				"schema", e.Schema,
				"only_in_a", e.OnlyInA,
				"only_in_b", e.OnlyInB,
				"different_values", e.DifferentValues,
				"duration", e.Duration,
			)
		},
	}
}
