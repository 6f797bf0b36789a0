package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoadRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	key := NewKey(1, 5)

	saved, err := store.Save(context.Background(), key, State{
		MemberID: 1, GymID: 5, SessionID: key.SessionID,
		Active: true, StartedAt: timerTestStart,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	loaded, err := store.Load(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestMemoryStore_LoadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), NewKey(1, 5))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_StaleVersionRejected(t *testing.T) {
	store := NewMemoryStore()
	key := NewKey(1, 5)

	first, err := store.Save(context.Background(), key, State{Version: 0, Active: true})
	require.NoError(t, err)

	// A writer that never saw the first save holds version 0.
	_, err = store.Save(context.Background(), key, State{Version: 0, Active: true})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The current holder can write again.
	_, err = store.Save(context.Background(), key, State{Version: first.Version, Active: false})
	assert.NoError(t, err)
}

func TestMemoryStore_WatchReceivesWrites(t *testing.T) {
	store := NewMemoryStore()
	key := NewKey(1, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Watch(ctx, key)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), key, State{Active: true, StartedAt: timerTestStart})
	require.NoError(t, err)

	select {
	case st := <-ch:
		assert.True(t, st.Active)
		assert.Equal(t, int64(1), st.Version)
	case <-time.After(time.Second):
		t.Fatal("watch channel never delivered the write")
	}
}

func TestMemoryStore_DeleteThenLoad(t *testing.T) {
	store := NewMemoryStore()
	key := NewKey(1, 5)

	_, err := store.Save(context.Background(), key, State{Active: true})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), key))

	_, err = store.Load(context.Background(), key)
	assert.ErrorIs(t, err, ErrNotFound)
}
