// Command tracker is a development companion that simulates a member's device:
// it feeds synthetic location samples through the geofence state machine and
// the persistent presence timer, sharing timer state through redis so several
// instances behave like tabs of the same session.
package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gympresence/internal/config"
	"gympresence/internal/geofence"
	"gympresence/internal/logger"
	"gympresence/internal/timer"

	"github.com/redis/go-redis/v9"
)

type timerControl struct {
	svc *timer.Service
	key timer.Key
}

func (t timerControl) Start(ctx context.Context) error { return t.svc.Start(ctx, t.key) }
func (t timerControl) Stop(ctx context.Context) error  { return t.svc.Stop(ctx) }

// walkProvider emits samples that approach the gym from the given start
// distance and then dwell on the spot.
type walkProvider struct {
	gymLat, gymLon float64
	startOffsetM   float64
	stepM          float64
	interval       time.Duration
}

func (p walkProvider) Watch(ctx context.Context) (<-chan geofence.Sample, <-chan error) {
	samples := make(chan geofence.Sample)
	errs := make(chan error)

	go func() {
		defer close(samples)
		defer close(errs)

		// 1 degree of latitude is ~111 km everywhere.
		const metersPerDegree = 111_000.0
		offset := p.startOffsetM

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := geofence.Sample{
					Latitude:  p.gymLat + offset/metersPerDegree,
					Longitude: p.gymLon,
					AccuracyM: 10,
					At:        time.Now(),
				}
				offset = math.Max(0, offset-p.stepM)

				select {
				case samples <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return samples, errs
}

func main() {
	memberID := flag.Int("member", 1, "member ID")
	gymID := flag.Int("gym", 1, "gym ID")
	gymLat := flag.Float64("lat", 12.9716, "gym latitude")
	gymLon := flag.Float64("lon", 77.5946, "gym longitude")
	startOffset := flag.Float64("start-offset", 120, "initial distance from the gym in meters")
	sampleEvery := flag.Duration("sample-every", 5*time.Second, "interval between simulated samples")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store timer.Store
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory timer store", "error", err)
		store = timer.NewMemoryStore()
	} else {
		store = timer.NewRedisStore(redisClient)
	}

	timerSvc := timer.NewService(store, timer.SystemClock(), timer.Config{
		MaxDuration: cfg.RequiredPresence,
	})
	timerSvc.OnTick(func(st timer.State) {
		logger.Debug("timer tick", "elapsed_ms", st.ElapsedMs, "version", st.Version)
	})
	timerSvc.OnComplete(func(st timer.State) {
		logger.Info("presence requirement met",
			"member_id", st.MemberID, "gym_id", st.GymID, "elapsed_ms", st.ElapsedMs)
	})

	key := timer.NewKey(*memberID, *gymID)

	tracker := geofence.NewTracker(
		geofence.Config{
			Latitude:           *gymLat,
			Longitude:          *gymLon,
			RadiusM:            cfg.ClientGeofenceRadiusM,
			AccuracyToleranceM: cfg.AccuracyToleranceM,
			RequiredPresence:   cfg.RequiredPresence,
			MaxSampleGap:       cfg.MaxSampleGap,
			HistoryWindow:      cfg.HistoryWindow,
			AutoCheckIn: func(st geofence.State) {
				logger.Info("check-in conditions met",
					"member_id", *memberID, "gym_id", *gymID,
					"continuous_presence", st.ContinuousPresence.String())
			},
		},
		timer.SystemClock(),
		walkProvider{
			gymLat:       *gymLat,
			gymLon:       *gymLon,
			startOffsetM: *startOffset,
			stepM:        15,
			interval:     *sampleEvery,
		},
		timerControl{svc: timerSvc, key: key},
	)

	unsubscribe := tracker.Subscribe(func(ev geofence.Event) {
		logger.Info("geofence event",
			"type", string(ev.Type),
			"within_radius", ev.State.WithinRadius,
			"can_check_in", ev.State.Status.CanCheckIn)
	})
	defer unsubscribe()

	go func() {
		if err := tracker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("tracker stopped", "error", err)
		}
	}()

	logger.Info("tracker simulation running",
		"member_id", *memberID, "gym_id", *gymID, "session_id", key.SessionID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	tracker.Stop()
	logger.Info("tracker stopped")
}
