package validator_test

import (
	"testing"

	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_DetectsDifferences(t *testing.T) {
	envA := mustParse(t, "DEBUG=true\nPORT=8000\nDATABASE_URL=postgres://dev")
	envB := mustParse(t, "DEBUG=false\nPORT=8000\nDATABASE_URL=postgres://prod")

	diff, err := validator.Compare(envA, envB, loadGeneric(t))
	require.NoError(t, err)

	assert.Contains(t, diff.DifferentValues, "DEBUG")
	assert.Contains(t, diff.DifferentValues, "DATABASE_URL")
	assert.NotContains(t, diff.DifferentValues, "PORT")
	assert.Equal(t, []string{}, diff.OnlyInA)
	assert.Equal(t, []string{}, diff.OnlyInB)
	assert.False(t, diff.Identical())
}

func TestCompare_OnlyIn(t *testing.T) {
	s, err := schema.New("fixture",
		schema.Rule{Key: "A", Type: schema.TypeString},
		schema.Rule{Key: "B", Type: schema.TypeInt},
		schema.Rule{Key: "C", Type: schema.TypeBool},
		schema.Rule{Key: "D", Type: schema.TypeString},
	)
	require.NoError(t, err)

	// B is invalid on side b, so it counts as only in a.
	envA := dotenv.FromPairs("A", "1", "B", "2", "D", "x")
	envB := dotenv.FromPairs("C", "yes", "B", "two", "D", "x")

	diff, err := validator.Compare(envA, envB, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, diff.OnlyInA)
	assert.Equal(t, []string{"C"}, diff.OnlyInB)
	assert.Empty(t, diff.DifferentValues)

	// Both reports are available to explain why B is absent on one side.
	assert.Equal(t, []string{"B"}, diff.Validation.B.InvalidKeys())
	assert.Empty(t, diff.Validation.B.Missing)
}

func TestCompare_EqualAfterCoercion(t *testing.T) {
	s, err := schema.New("fixture",
		schema.Rule{Key: "FLAG", Type: schema.TypeBool},
		schema.Rule{Key: "N", Type: schema.TypeInt},
	)
	require.NoError(t, err)

	diff, err := validator.Compare(
		dotenv.FromPairs("FLAG", "yes", "N", "007"),
		dotenv.FromPairs("FLAG", "TRUE", "N", "7"),
		s,
	)
	require.NoError(t, err)
	assert.True(t, diff.Identical())
}

func TestCompare_SchemaErrorAborts(t *testing.T) {
	s, err := schema.New("bad", schema.Rule{Key: "X", Type: "uuid"})
	require.NoError(t, err)

	diff, err := validator.Compare(dotenv.FromPairs("X", "1"), dotenv.FromPairs("X", "2"), s)
	assert.Nil(t, diff)
	assert.ErrorIs(t, err, schema.ErrUnknownType)
}

func TestDiff_TypedEquality(t *testing.T) {
	strSchema, err := schema.New("s", schema.Rule{Key: "V", Type: schema.TypeString})
	require.NoError(t, err)
	boolSchema, err := schema.New("b", schema.Rule{Key: "V", Type: schema.TypeBool})
	require.NoError(t, err)

	env := dotenv.FromPairs("V", "true")
	a, err := validator.Validate(env, boolSchema)
	require.NoError(t, err)
	b, err := validator.Validate(env, strSchema)
	require.NoError(t, err)

	diff := validator.Diff(a, b)
	assert.Equal(t, []string{"V"}, diff.DifferentValues, "bool true must differ from string \"true\"")
}
