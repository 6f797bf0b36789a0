package timer

import (
	"context"
	"sync"
)

// MemoryStore keeps timer state in-process. It honors the same CAS and watch
// semantics as the redis store so tests and embedded use see identical
// behavior.
type MemoryStore struct {
	mu       sync.Mutex
	states   map[string]State
	started  map[string]bool
	watchers map[string][]chan State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:   make(map[string]State),
		started:  make(map[string]bool),
		watchers: make(map[string][]chan State),
	}
}

func (s *MemoryStore) Load(_ context.Context, key Key) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key.String()]
	if !ok {
		return State{}, ErrNotFound
	}
	return st, nil
}

func (s *MemoryStore) Save(_ context.Context, key Key, st State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key.String()
	var current int64
	if existing, ok := s.states[k]; ok {
		current = existing.Version
	}
	if st.Version != current {
		return State{}, ErrVersionConflict
	}

	st.Version = current + 1
	s.states[k] = st

	for _, ch := range s.watchers[k] {
		select {
		case ch <- st:
		default:
		}
	}

	return st, nil
}

func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, key.String())
	return nil
}

func (s *MemoryStore) TryMarkStarted(_ context.Context, memberID, gymID int, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := startedKey(memberID, gymID, day)
	if s.started[k] {
		return false, nil
	}
	s.started[k] = true
	return true, nil
}

func (s *MemoryStore) Watch(ctx context.Context, key Key) (<-chan State, error) {
	ch := make(chan State, 8)
	k := key.String()

	s.mu.Lock()
	s.watchers[k] = append(s.watchers[k], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		watchers := s.watchers[k]
		for i, w := range watchers {
			if w == ch {
				s.watchers[k] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
