package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/envguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractDocument = "variables:\n  PORT:\n    type: int\n    required: true\n"

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore implementation
// adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, []byte(contractDocument))
		require.NoError(t, err, "Save should not return error")

		data, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, contractDocument, string(data))

		s, err := schema.Decode(name, data)
		require.NoError(t, err, "stored document should still decode")
		assert.True(t, s.Has("PORT"))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte("variables: {}\n")))
		data, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "variables: {}\n", string(data))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, schema.ErrNotFound)
	})

	t.Run("Invalid Names", func(t *testing.T) {
		for _, bad := range []string{"", "../etc/passwd", "a/b", `a\b`} {
			_, err := store.Load(ctx, bad)
			assert.ErrorIs(t, err, schema.ErrInvalidName, "Load(%q)", bad)
			assert.ErrorIs(t, store.Save(ctx, bad, []byte(contractDocument)), schema.ErrInvalidName, "Save(%q)", bad)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte(contractDocument)))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, schema.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, []byte(contractDocument)))
		require.NoError(t, store.Save(ctx, id2, []byte(contractDocument)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names, "List must be sorted")
	})

	t.Run("Reserved-Looking Names", func(t *testing.T) {
		for _, n := range []string{"index", "doc", "lock"} {
			require.NoError(t, store.Save(ctx, n, []byte(contractDocument)), "Save(%q)", n)
		}
		defer func() {
			for _, n := range []string{"index", "doc", "lock"} {
				_ = store.Delete(ctx, n)
			}
		}()

		names, err := store.List(ctx)
		require.NoError(t, err, "List must survive any stored name")
		assert.Subset(t, names, []string{"doc", "index", "lock"})

		data, err := store.Load(ctx, "index")
		require.NoError(t, err)
		assert.Equal(t, contractDocument, string(data))
	})
}
