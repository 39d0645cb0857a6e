package debugflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quoteflow/internal/infra/cache"
)

func newTestManager(t *testing.T) (*Manager, *cache.Store) {
	t.Helper()
	store, err := cache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store), store
}

func TestDefaultsAreAllOff(t *testing.T) {
	m, _ := newTestManager(t)
	m.Init(context.Background())

	assert.Equal(t, Flags{}, m.Current())
}

func TestSetPersistsAcrossManagers(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.Set(ctx, Flags{SimulateOffline: true})

	// Novo manager no mesmo store simula restart do app.
	m2 := NewManager(store)
	m2.Init(ctx)
	assert.True(t, m2.Current().SimulateOffline)
	assert.False(t, m2.Current().SimulateError)
}

func TestSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var got []Flags
	unsubscribe := m.Subscribe(func(f Flags) { got = append(got, f) })

	m.Set(ctx, Flags{SimulateError: true})
	require.Len(t, got, 1)
	assert.True(t, got[0].SimulateError)

	unsubscribe()
	m.Set(ctx, Flags{})
	assert.Len(t, got, 1)
}

func TestResetClearsPersistence(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	m.Set(ctx, Flags{SimulateError: true, SimulateOffline: true})
	m.Reset(ctx)

	assert.Equal(t, Flags{}, m.Current())

	m2 := NewManager(store)
	m2.Init(ctx)
	assert.Equal(t, Flags{}, m2.Current())
}

func TestCorruptPersistedValueFallsBackToDefaults(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	store.SetRaw(ctx, "debug:flags", "###")
	m.Init(ctx)

	assert.Equal(t, Flags{}, m.Current())
}
