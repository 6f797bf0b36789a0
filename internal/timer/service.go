package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"gympresence/internal/logger"
	"gympresence/internal/metrics"
)

var (
	ErrAlreadyStartedToday = errors.New("timer already started today for this member and gym")
	ErrNotActive           = errors.New("timer is not active")
)

type Config struct {
	// MaxDuration is the presence requirement; reaching it completes the
	// timer.
	MaxDuration time.Duration
	// TickInterval drives persistence and completion checks only. Elapsed
	// time is never accumulated from ticks: the host runtime may suspend
	// callback delivery for arbitrarily long.
	TickInterval time.Duration
}

// Service is a wall-clock-anchored countdown timer keyed by
// (member, gym, session). It survives process suspension and reload because
// every read recomputes elapsed time from the persisted start timestamp.
type Service struct {
	store Store
	clock Clock
	cfg   Config

	mu         sync.Mutex
	key        Key
	state      State
	cancel     context.CancelFunc
	completed  bool
	onComplete func(State)
	onTick     func(State)
}

func NewService(store Store, clock Clock, cfg Config) *Service {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Service{store: store, clock: clock, cfg: cfg}
}

// OnComplete registers the completion callback. It fires at most once per
// started timer, including immediately on Resume when the recomputed elapsed
// time already exceeds the maximum.
func (s *Service) OnComplete(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// OnTick registers a repaint hook invoked with a state snapshot on every
// persisted tick.
func (s *Service) OnTick(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// Start begins a new timer, subject to the once-per-calendar-day limit per
// (member, gym).
func (s *Service) Start(ctx context.Context, key Key) error {
	now := s.clock.Now()

	ok, err := s.store.TryMarkStarted(ctx, key.MemberID, key.GymID, DayKey(now))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyStartedToday
	}

	st := State{
		MemberID:   key.MemberID,
		GymID:      key.GymID,
		SessionID:  key.SessionID,
		Active:     true,
		StartedAt:  now,
		LastUpdate: now,
	}
	saved, err := s.store.Save(ctx, key, st)
	if err != nil {
		return err
	}

	metrics.RecordTimerStart()
	s.begin(ctx, key, saved)
	return nil
}

// Resume picks up a persisted timer after a reload or suspension. If the
// recomputed elapsed time already meets the maximum, the completion callback
// fires immediately instead of waiting for the next tick.
func (s *Service) Resume(ctx context.Context, key Key) error {
	st, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if !st.Active {
		return ErrNotActive
	}

	now := s.clock.Now()
	st.ElapsedMs = now.Sub(st.StartedAt).Milliseconds()
	st.LastUpdate = now

	if now.Sub(st.StartedAt) >= s.cfg.MaxDuration {
		st.Active = false
		saved, serr := s.store.Save(ctx, key, st)
		if serr != nil {
			saved = st
		}
		s.mu.Lock()
		s.key = key
		s.state = saved
		s.completed = true
		fn := s.onComplete
		s.mu.Unlock()
		if fn != nil {
			fn(saved)
		}
		return nil
	}

	saved, err := s.store.Save(ctx, key, st)
	if err != nil {
		return err
	}

	s.begin(ctx, key, saved)
	return nil
}

// Stop halts the timer and persists the inactive state. It is safe to call
// when nothing is running.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if !s.state.Active {
		s.mu.Unlock()
		return nil
	}
	now := s.clock.Now()
	s.state.Active = false
	s.state.ElapsedMs = now.Sub(s.state.StartedAt).Milliseconds()
	s.state.LastUpdate = now
	key, st := s.key, s.state
	s.mu.Unlock()

	saved, err := s.store.Save(ctx, key, st)
	if err == nil {
		s.mu.Lock()
		s.state = saved
		s.mu.Unlock()
	}
	return err
}

// State returns a snapshot with elapsed time recomputed from the clock.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Active {
		st.ElapsedMs = s.clock.Now().Sub(st.StartedAt).Milliseconds()
	}
	return st
}

// Elapsed is always now − StartedAt, never a tick count.
func (s *Service) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		return time.Duration(s.state.ElapsedMs) * time.Millisecond
	}
	return s.clock.Now().Sub(s.state.StartedAt)
}

func (s *Service) begin(ctx context.Context, key Key, st State) {
	loopCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.key = key
	s.state = st
	s.cancel = cancel
	s.completed = false
	s.mu.Unlock()

	if ch, err := s.store.Watch(loopCtx, key); err == nil {
		go s.reconcileLoop(ch)
	} else {
		logger.Warn("timer watch unavailable", "key", key.String(), "error", err)
	}

	go s.run(loopCtx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.tick(ctx) {
				return
			}
		}
	}
}

// tick persists the recomputed elapsed time and reports whether the timer
// finished.
func (s *Service) tick(ctx context.Context) bool {
	s.mu.Lock()
	if !s.state.Active || s.completed {
		s.mu.Unlock()
		return true
	}
	now := s.clock.Now()
	elapsed := now.Sub(s.state.StartedAt)
	s.state.ElapsedMs = elapsed.Milliseconds()
	s.state.LastUpdate = now
	key, st := s.key, s.state
	onTick := s.onTick
	s.mu.Unlock()

	saved, err := s.store.Save(ctx, key, st)
	switch {
	case errors.Is(err, ErrVersionConflict):
		// Another session wrote more recently; last write wins.
		if latest, lerr := s.store.Load(ctx, key); lerr == nil {
			s.mu.Lock()
			s.state = latest
			s.mu.Unlock()
			saved = latest
		}
	case err != nil:
		logger.Warn("timer state save failed", "key", key.String(), "error", err)
		saved = st
	default:
		s.mu.Lock()
		s.state = saved
		s.mu.Unlock()
	}

	if onTick != nil {
		onTick(saved)
	}

	if elapsed >= s.cfg.MaxDuration {
		s.finish(ctx)
		return true
	}
	return false
}

func (s *Service) finish(ctx context.Context) {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	now := s.clock.Now()
	s.state.Active = false
	s.state.ElapsedMs = now.Sub(s.state.StartedAt).Milliseconds()
	s.state.LastUpdate = now
	key, st := s.key, s.state
	fn := s.onComplete
	s.mu.Unlock()

	saved, err := s.store.Save(ctx, key, st)
	if err != nil {
		saved = st
	} else {
		s.mu.Lock()
		s.state = saved
		s.mu.Unlock()
	}

	metrics.RecordTimerCompletion()
	if fn != nil {
		fn(saved)
	}
}

// reconcileLoop applies states written by other sessions. Newer versions
// replace the local view; stale ones are ignored.
func (s *Service) reconcileLoop(ch <-chan State) {
	for st := range ch {
		s.mu.Lock()
		if st.Version > s.state.Version {
			s.state = st
		}
		s.mu.Unlock()
	}
}
