package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("fixture",
		schema.Rule{Key: "URL", Type: schema.TypeString, Required: true},
		schema.Rule{Key: "PORT", Type: schema.TypeInt, Min: schema.Bound(1024)},
		schema.Rule{Key: "DEBUG", Type: schema.TypeBool},
	)
	require.NoError(t, err)
	return s
}

func TestPrinter_Report(t *testing.T) {
	env, err := dotenv.Parse("PORT=80\nDEBUG=yes\nFOO=1")
	require.NoError(t, err)
	report, err := validator.Validate(env, fixtureSchema(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf, termenv.Ascii).Report("fixture", report)

	want := "Schema: fixture\n" +
		"✗ Missing (1)\n  - URL\n" +
		"✗ Invalid (1)\n  - PORT: value 80 is less than min 1024\n" +
		"! Extra (1)\n  - FOO\n" +
		"✓ Validated (1)\n  - DEBUG = true\n" +
		"Result: FAILED\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Diff(t *testing.T) {
	s := fixtureSchema(t)
	diff, err := validator.Compare(
		dotenv.FromPairs("URL", "a", "PORT", "8000"),
		dotenv.FromPairs("URL", "b", "DEBUG", "no"),
		s,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf, termenv.Ascii).Diff("fixture", "dev.env", "prod.env", diff)

	out := buf.String()
	assert.Contains(t, out, "< Only in dev.env (1)\n  - PORT\n")
	assert.Contains(t, out, "> Only in prod.env (1)\n  - DEBUG\n")
	assert.Contains(t, out, "≠ Different values (1)\n  - URL: a → b\n")
	assert.Contains(t, out, "Result: DIFFERENT")
}

func TestMarkdown(t *testing.T) {
	s := fixtureSchema(t)
	report, err := validator.Validate(dotenv.FromPairs("URL", "x", "PORT", "2048"), s)
	require.NoError(t, err)

	md := ReportMarkdown("fixture", report)
	assert.Contains(t, md, "# Validation: fixture")
	assert.Contains(t, md, "✅ Passed")
	assert.Contains(t, md, "## Missing (0)\n\n_none_")
	assert.Contains(t, md, "- `PORT` = `2048`")

	diff := validator.Diff(report, report)
	md = DiffMarkdown("fixture", "a", "b", diff)
	assert.Contains(t, md, "✅ Identical")
	assert.Contains(t, md, "## Different values (0)")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title\n\n- item\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "item")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(nil))
}
