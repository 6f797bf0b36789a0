package geofence

import (
	"context"
	"errors"
	"sync"
	"time"

	"gympresence/internal/geo"
	"gympresence/internal/logger"
	"gympresence/internal/presence"
	"gympresence/internal/timer"
)

type EventType string

const (
	EventEntered EventType = "entered"
	EventExited  EventType = "exited"
	EventStatus  EventType = "status"
)

type Event struct {
	Type  EventType
	State State
}

// Status is the derived validation verdict, recomputed on its own cadence so
// wall-clock thresholds are evaluated even between samples.
type Status struct {
	WithinRadius        bool `json:"within_radius"`
	HasRequiredPresence bool `json:"has_required_presence"`
	CanCheckIn          bool `json:"can_check_in"`
}

type HistoryEntry struct {
	Sample       Sample
	WithinRadius bool
	DistanceM    float64
}

// State is the tracker's view of the member's presence. All fields are
// snapshots; the tracker owns the live copy behind its mutex.
type State struct {
	WithinRadius       bool
	EnteredAt          time.Time
	ContinuousPresence time.Duration
	LastSample         *Sample
	CheckInTriggered   bool
	History            []HistoryEntry
	Status             Status
	LastProviderError  error
}

// TimerControl is what the tracker pokes on geofence transitions; in
// production it is backed by timer.Service.
type TimerControl interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Config struct {
	Latitude  float64
	Longitude float64
	// RadiusM is the client-side radius. It is wider than the radius the
	// server enforces at check-in, so the client can never show "ready"
	// for a spot the server would reject only marginally.
	RadiusM            float64
	AccuracyToleranceM float64

	RequiredPresence   time.Duration
	MaxSampleGap       time.Duration
	HistoryWindow      time.Duration
	ValidationInterval time.Duration

	// AutoCheckIn, when set, fires once per entry as soon as the status
	// reaches can-check-in.
	AutoCheckIn func(State)
}

// Tracker is the client-side geofence state machine: it consumes a sample
// stream, maintains inside/outside state plus a continuous-presence
// accumulator, and cross-checks that accumulator against a history replay
// before ever reporting can-check-in.
type Tracker struct {
	cfg       Config
	clock     timer.Clock
	provider  Provider
	timerCtl  TimerControl
	validator presence.Validator

	mu          sync.Mutex
	state       State
	subscribers map[int]func(Event)
	nextSubID   int
	cancel      context.CancelFunc
}

func NewTracker(cfg Config, clock timer.Clock, provider Provider, timerCtl TimerControl) *Tracker {
	if cfg.ValidationInterval <= 0 {
		cfg.ValidationInterval = 5 * time.Second
	}
	return &Tracker{
		cfg:      cfg,
		clock:    clock,
		provider: provider,
		timerCtl: timerCtl,
		validator: presence.Validator{
			Required: cfg.RequiredPresence,
			MaxGap:   cfg.MaxSampleGap,
		},
		subscribers: make(map[int]func(Event)),
	}
}

// Subscribe registers an observer and returns its disposable handle.
func (t *Tracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subscribers, id)
		t.mu.Unlock()
	}
}

// Run consumes the provider stream and drives the validation ticker until
// ctx is done or Stop is called.
func (t *Tracker) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		cancel()
		return errors.New("tracker already running")
	}
	t.cancel = cancel
	t.mu.Unlock()

	samples, errs := t.provider.Watch(runCtx)

	ticker := time.NewTicker(t.cfg.ValidationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			return nil
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			t.processSample(runCtx, s)
		case err, ok := <-errs:
			if ok && err != nil {
				t.recordProviderError(err)
			}
		case <-ticker.C:
			t.validate(runCtx)
		}
	}
}

// Stop cancels the sample watch and validation ticker and clears the state.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.state = State{}
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// State returns a snapshot with the history slice copied out.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.state
	st.History = append([]HistoryEntry(nil), t.state.History...)
	return st
}

func (t *Tracker) processSample(ctx context.Context, s Sample) {
	if t.cfg.AccuracyToleranceM > 0 && s.AccuracyM > t.cfg.AccuracyToleranceM {
		logger.Debug("sample discarded for accuracy",
			"accuracy_m", s.AccuracyM, "tolerance_m", t.cfg.AccuracyToleranceM)
		return
	}

	now := t.clock.Now()
	dist := geo.Distance(s.Latitude, s.Longitude, t.cfg.Latitude, t.cfg.Longitude)
	within := dist <= t.cfg.RadiusM

	t.mu.Lock()

	t.state.History = append(t.state.History, HistoryEntry{
		Sample:       s,
		WithinRadius: within,
		DistanceM:    dist,
	})
	t.pruneHistoryLocked(now)

	var transition EventType
	switch {
	case within && !t.state.WithinRadius:
		t.state.WithinRadius = true
		t.state.EnteredAt = now
		t.state.CheckInTriggered = false
		transition = EventEntered
	case !within && t.state.WithinRadius:
		t.state.WithinRadius = false
		t.state.EnteredAt = time.Time{}
		t.state.ContinuousPresence = 0
		t.state.CheckInTriggered = false
		transition = EventExited
	}

	if t.state.WithinRadius {
		// Recomputed from the wall clock, never incremented per tick.
		t.state.ContinuousPresence = now.Sub(t.state.EnteredAt)
	}

	t.state.LastSample = &s
	t.state.LastProviderError = nil
	t.refreshStatusLocked()
	st := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	switch transition {
	case EventEntered:
		if t.timerCtl != nil {
			if err := t.timerCtl.Start(ctx); err != nil {
				if errors.Is(err, timer.ErrAlreadyStartedToday) {
					logger.Info("timer not restarted: daily start already used")
				} else {
					logger.Warn("timer start failed", "error", err)
				}
			}
		}
		t.publish(subs, Event{Type: EventEntered, State: st})
	case EventExited:
		if t.timerCtl != nil {
			if err := t.timerCtl.Stop(ctx); err != nil {
				logger.Warn("timer stop failed", "error", err)
			}
		}
		t.publish(subs, Event{Type: EventExited, State: st})
	}
	t.publish(subs, Event{Type: EventStatus, State: st})
}

// validate recomputes the wall-clock-dependent parts of the status. It runs
// on its own cadence: presence can cross the required threshold between two
// samples, and the UI has to notice without waiting for the next fix.
func (t *Tracker) validate(_ context.Context) {
	now := t.clock.Now()

	t.mu.Lock()
	if t.state.WithinRadius {
		t.state.ContinuousPresence = now.Sub(t.state.EnteredAt)
	}
	t.pruneHistoryLocked(now)
	t.refreshStatusLocked()

	var auto func(State)
	if t.state.Status.CanCheckIn && !t.state.CheckInTriggered && t.cfg.AutoCheckIn != nil {
		t.state.CheckInTriggered = true
		auto = t.cfg.AutoCheckIn
	}
	st := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	if auto != nil {
		auto(st)
	}
	t.publish(subs, Event{Type: EventStatus, State: st})
}

func (t *Tracker) recordProviderError(err error) {
	t.mu.Lock()
	t.state.LastProviderError = err
	st := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	logger.Warn("location provider error", "error", err)
	t.publish(subs, Event{Type: EventStatus, State: st})
}

func (t *Tracker) pruneHistoryLocked(now time.Time) {
	cutoff := now.Add(-t.cfg.HistoryWindow)
	i := 0
	for ; i < len(t.state.History); i++ {
		if !t.state.History[i].Sample.At.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		t.state.History = append([]HistoryEntry(nil), t.state.History[i:]...)
	}
}

// refreshStatusLocked derives the verdict from two independent signals: the
// live accumulator and the history replay. Both must agree before
// can-check-in, so a single noisy event cannot fool either one alone.
func (t *Tracker) refreshStatusLocked() {
	points := make([]presence.Point, 0, len(t.state.History))
	for _, h := range t.state.History {
		points = append(points, presence.Point{At: h.Sample.At, Within: h.WithinRadius})
	}

	replayOK := t.validator.HasRequiredPresence(points, t.state.WithinRadius)
	accumulatorOK := t.state.WithinRadius && t.state.ContinuousPresence >= t.cfg.RequiredPresence

	t.state.Status = Status{
		WithinRadius:        t.state.WithinRadius,
		HasRequiredPresence: replayOK,
		CanCheckIn:          replayOK && accumulatorOK && !t.state.CheckInTriggered,
	}
}

func (t *Tracker) snapshotLocked() State {
	st := t.state
	st.History = append([]HistoryEntry(nil), t.state.History...)
	return st
}

func (t *Tracker) subscribersLocked() []func(Event) {
	subs := make([]func(Event), 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (t *Tracker) publish(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
