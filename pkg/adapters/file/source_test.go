package file_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/aretw0/envguard/pkg/adapters/file"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_LoadAndList(t *testing.T) {
	fsys := fstest.MapFS{
		"app.yaml":      {Data: []byte("variables: {}\n")},
		"legacy.yml":    {Data: []byte("variables:\n  A: null\n")},
		"both.yaml":     {Data: []byte("from: yaml")},
		"both.yml":      {Data: []byte("from: yml")},
		"README.md":     {Data: []byte("ignored")},
		".hidden.yaml":  {Data: []byte("ignored")},
		"nested/x.yaml": {Data: []byte("ignored")},
	}
	src := file.New(fsys)
	ctx := context.Background()

	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "both", "legacy"}, names)

	data, err := src.Load(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "variables:\n  A: null\n", string(data))

	data, err = src.Load(ctx, "both")
	require.NoError(t, err)
	assert.Equal(t, "from: yaml", string(data), ".yaml wins over .yml")
}

func TestSource_Errors(t *testing.T) {
	src := file.New(fstest.MapFS{})
	ctx := context.Background()

	_, err := src.Load(ctx, "missing")
	assert.ErrorIs(t, err, schema.ErrNotFound)

	_, err = src.Load(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, schema.ErrInvalidName)
}

func TestSource_EmbeddedSchemasDecode(t *testing.T) {
	src := file.New(schemas.FS)
	ctx := context.Background()

	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"django", "dockerfile", "fastapi", "flask", "generic", "node"}, names)

	for _, name := range names {
		data, err := src.Load(ctx, name)
		require.NoError(t, err, name)
		s, err := schema.Decode(name, data)
		require.NoError(t, err, name)
		assert.Positive(t, s.Len(), name)
		assert.NotEmpty(t, s.Meta.Name, name)
	}
}
