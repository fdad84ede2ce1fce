package envguard_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/pkg/adapters/chain"
	"github.com/aretw0/envguard/pkg/adapters/memory"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_DefaultsToGeneric(t *testing.T) {
	guard, err := envguard.New()
	require.NoError(t, err)

	report, err := guard.Validate(context.Background(), "DEBUG=true\nPORT=80", envguard.SchemaRef{})
	require.NoError(t, err)

	assert.Contains(t, report.Missing, "DATABASE_URL")
	require.Len(t, report.Invalid, 1)
	assert.Equal(t, "PORT", report.Invalid[0].Key)
	assert.Contains(t, report.Invalid[0].Reason, "min 1024")
}

func TestFacade_CompareScenario(t *testing.T) {
	guard, err := envguard.New()
	require.NoError(t, err)

	diff, err := guard.Compare(context.Background(),
		"DEBUG=true\nPORT=8000\nDATABASE_URL=postgres://dev",
		"DEBUG=false\nPORT=8000\nDATABASE_URL=postgres://prod",
		envguard.Named("generic"),
	)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"DEBUG", "DATABASE_URL"}, diff.DifferentValues)
	assert.Empty(t, diff.OnlyInA)
	assert.Empty(t, diff.OnlyInB)
}

func TestFacade_InlineSchemaWins(t *testing.T) {
	guard, err := envguard.New()
	require.NoError(t, err)

	ref := envguard.SchemaRef{Name: "generic", Content: []byte("variables:\n  ONLY: {required: true}\n")}
	assert.Equal(t, envguard.CustomSchema, guard.RefName(ref))

	report, err := guard.Validate(context.Background(), "PORT=1", ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"ONLY"}, report.Missing)
	assert.Equal(t, []string{"PORT"}, report.Extra)
}

func TestFacade_Errors(t *testing.T) {
	guard, err := envguard.New()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("parse error", func(t *testing.T) {
		_, err := guard.Validate(ctx, "A=1\nA=2", envguard.SchemaRef{})
		var parseErr *dotenv.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 2, parseErr.Line)
		assert.ErrorIs(t, err, dotenv.ErrDuplicateKey)
	})

	t.Run("parse error names the side", func(t *testing.T) {
		_, err := guard.Compare(ctx, "A=1", "NOEQUALS", envguard.SchemaRef{})
		assert.ErrorIs(t, err, dotenv.ErrMissingSeparator)
		assert.Contains(t, err.Error(), "env_b: line 1")
	})

	t.Run("parse error reported before unknown schema", func(t *testing.T) {
		_, err := guard.Validate(ctx, "NOEQUALS", envguard.Named("cobol"))
		assert.ErrorIs(t, err, dotenv.ErrMissingSeparator)
		assert.False(t, schema.IsSchemaError(err))

		_, err = guard.Compare(ctx, "A=1", "NOEQUALS", envguard.Named("cobol"))
		assert.ErrorIs(t, err, dotenv.ErrMissingSeparator)
		assert.Contains(t, err.Error(), "env_b: line 1")
	})

	t.Run("unknown schema", func(t *testing.T) {
		_, err := guard.Validate(ctx, "", envguard.Named("cobol"))
		var schemaErr *schema.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "cobol", schemaErr.Schema)
		assert.ErrorIs(t, err, schema.ErrNotFound)
	})

	t.Run("path-like name", func(t *testing.T) {
		_, err := guard.Validate(ctx, "", envguard.Named("../generic"))
		assert.ErrorIs(t, err, schema.ErrInvalidName)
		assert.True(t, schema.IsSchemaError(err))
	})

	t.Run("inline schema without variables", func(t *testing.T) {
		_, err := guard.Validate(ctx, "", envguard.Inline([]byte("name: nothing")))
		assert.ErrorIs(t, err, schema.ErrNoVariables)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := guard.Validate(ctx, "X=1", envguard.Inline([]byte("variables:\n  X: {type: uuid}")))
		assert.ErrorIs(t, err, schema.ErrUnknownType)
	})
}

type brokenSource struct{}

func (brokenSource) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("redis: connection refused")
}
func (brokenSource) List(context.Context) ([]string, error) { return nil, nil }

func TestFacade_Hooks(t *testing.T) {
	var (
		mu        sync.Mutex
		validates []*domain.ValidationEvent
		compares  []*domain.CompareEvent
	)
	hooks := domain.Hooks{
		OnValidate: func(_ context.Context, e *domain.ValidationEvent) {
			mu.Lock()
			defer mu.Unlock()
			validates = append(validates, e)
		},
		OnCompare: func(_ context.Context, e *domain.CompareEvent) {
			mu.Lock()
			defer mu.Unlock()
			compares = append(compares, e)
		},
	}

	guard, err := envguard.New(envguard.WithHooks(hooks))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = guard.Validate(ctx, "PORT=80\nFOO=1", envguard.SchemaRef{})
	_, _ = guard.Validate(ctx, "BROKEN", envguard.SchemaRef{})
	_, _ = guard.Validate(ctx, "", envguard.Named("missing"))
	_, _ = guard.Compare(ctx, "DEBUG=1", "DEBUG=0", envguard.Named("generic"))

	require.Len(t, validates, 3)
	assert.Equal(t, "generic", validates[0].Schema)
	assert.Equal(t, domain.OutcomeOK, validates[0].Outcome)
	assert.Equal(t, 1, validates[0].Missing)
	assert.Equal(t, 1, validates[0].Invalid)
	assert.Equal(t, 1, validates[0].Extra)
	assert.False(t, validates[0].Timestamp.IsZero())

	assert.Equal(t, domain.OutcomeParseError, validates[1].Outcome)
	assert.Equal(t, domain.OutcomeSchemaError, validates[2].Outcome)
	assert.Equal(t, "missing", validates[2].Schema)

	require.Len(t, compares, 1)
	assert.Equal(t, 1, compares[0].DifferentValues)

	broken, err := envguard.New(envguard.WithSource(brokenSource{}), envguard.WithHooks(hooks))
	require.NoError(t, err)
	_, err = broken.Validate(ctx, "", envguard.SchemaRef{})
	require.Error(t, err)
	assert.False(t, schema.IsSchemaError(err))
	assert.Equal(t, domain.OutcomeError, validates[3].Outcome)
}

func TestFacade_CustomSource(t *testing.T) {
	overrides, err := memory.NewFromDocuments(map[string]string{
		"generic":  "variables:\n  ONLY_MINE: {required: true}\n",
		"internal": "name: Internal\nvariables:\n  TOKEN: {required: true}\n",
	})
	require.NoError(t, err)

	guard, err := envguard.New(
		envguard.WithSource(chain.New(overrides, envguard.BuiltinSource())),
		envguard.WithDefaultSchema("internal"),
	)
	require.NoError(t, err)
	ctx := context.Background()

	report, err := guard.Validate(ctx, "", envguard.SchemaRef{})
	require.NoError(t, err)
	assert.Equal(t, []string{"TOKEN"}, report.Missing)

	s, err := guard.Schema(ctx, "generic")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	entries, err := guard.Schemas(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 7)
	assert.Equal(t, "generic", entries[0].ID)
	assert.Equal(t, "internal", entries[6].ID)
	assert.Equal(t, "Internal", entries[6].Name)

	_, err = guard.Watch(ctx)
	assert.ErrorIs(t, err, ports.ErrNotWatchable)
}

func TestNew_RejectsBadDefault(t *testing.T) {
	_, err := envguard.New(envguard.WithDefaultSchema("../x"))
	assert.ErrorIs(t, err, schema.ErrInvalidName)
}
