package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/envguard/pkg/adapters/memory"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSchemaStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	doc := []byte("variables: {}\n")
	require.NoError(t, store.Save(ctx, "app", doc))
	doc[0] = 'X'

	loaded, err := store.Load(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, "variables: {}\n", string(loaded))

	loaded[0] = 'Y'
	again, err := store.Load(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, "variables: {}\n", string(again))
}

func TestNewFromDocuments(t *testing.T) {
	store, err := memory.NewFromDocuments(map[string]string{
		"b": "variables: {}",
		"a": "variables: {}",
	})
	require.NoError(t, err)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = memory.NewFromDocuments(map[string]string{"../x": ""})
	assert.ErrorIs(t, err, schema.ErrInvalidName)
}
