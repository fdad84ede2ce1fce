package chain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/envguard/pkg/adapters/chain"
	"github.com/aretw0/envguard/pkg/adapters/memory"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func seeded(t *testing.T, docs map[string]string) *memory.Store {
	t.Helper()
	s, err := memory.NewFromDocuments(docs)
	require.NoError(t, err)
	return s
}

func TestChain_FirstHitWins(t *testing.T) {
	overrides := seeded(t, map[string]string{"generic": "override"})
	builtins := seeded(t, map[string]string{"generic": "builtin", "flask": "flask"})
	src := chain.New(overrides, nil, builtins)
	ctx := context.Background()

	data, err := src.Load(ctx, "generic")
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))

	data, err = src.Load(ctx, "flask")
	require.NoError(t, err)
	assert.Equal(t, "flask", string(data))

	_, err = src.Load(ctx, "django")
	assert.ErrorIs(t, err, schema.ErrNotFound)

	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask", "generic"}, names)
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingSource) List(context.Context) ([]string, error)       { return nil, f.err }

func TestChain_InfrastructureErrorsStop(t *testing.T) {
	boom := errors.New("connection refused")
	src := chain.New(failingSource{err: boom}, seeded(t, map[string]string{"generic": "x"}))

	_, err := src.Load(context.Background(), "generic")
	assert.ErrorIs(t, err, boom)

	_, err = src.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

type fakeWatchable struct {
	*memory.Store
	names []string
}

func (f fakeWatchable) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, n := range f.names {
			select {
			case ch <- n:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return ch, nil
}

func TestChain_WatchFansIn(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := fakeWatchable{Store: memory.NewStore(), names: []string{"a"}}
	b := fakeWatchable{Store: memory.NewStore(), names: []string{"b"}}
	src := chain.New(a, memory.NewStore(), b)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := src.Watch(ctx)
	require.NoError(t, err)

	var got []string
	for len(got) < 2 {
		select {
		case name := <-events:
			got = append(got, name)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out")
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, got)

	cancel()
	for range events {
	}
}

type brokenWatchable struct {
	*memory.Store
	err error
}

func (b brokenWatchable) Watch(context.Context) (<-chan string, error) { return nil, b.err }

func TestChain_WatchStopsStartedMembersOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("too many open files")
	started := fakeWatchable{Store: memory.NewStore(), names: nil}
	src := chain.New(started, brokenWatchable{Store: memory.NewStore(), err: boom})

	// The parent context stays alive; the started member must still be stopped.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := src.Watch(ctx)
	assert.Nil(t, events)
	assert.ErrorIs(t, err, boom)
}

func TestChain_WatchWithoutWatchables(t *testing.T) {
	_, err := chain.New(memory.NewStore()).Watch(context.Background())
	assert.ErrorIs(t, err, ports.ErrNotWatchable)
}
