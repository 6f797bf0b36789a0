package timer

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("timer state not found")
	ErrVersionConflict = errors.New("timer state version conflict")
)

// Store is the durable, session-shared home of TimerState. Writes are
// versioned compare-and-swap: a writer holding a stale version gets
// ErrVersionConflict and is expected to reload and reconcile, which yields
// last-write-wins without silently dropping concurrent writes.
type Store interface {
	Load(ctx context.Context, key Key) (State, error)
	// Save persists st if st.Version matches the stored version (0 for a
	// new record) and returns the state with the incremented version.
	Save(ctx context.Context, key Key, st State) (State, error)
	Delete(ctx context.Context, key Key) error
	// TryMarkStarted claims the once-per-calendar-day start slot for
	// (member, gym, day). It returns false if the slot was already claimed.
	TryMarkStarted(ctx context.Context, memberID, gymID int, day string) (bool, error)
	// Watch streams every state written for key until ctx is done; this is
	// the cross-session change notification.
	Watch(ctx context.Context, key Key) (<-chan State, error)
}
