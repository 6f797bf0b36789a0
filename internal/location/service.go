package location

import (
	"context"
	"errors"
	"time"

	"gympresence/internal/geo"
	"gympresence/internal/gym"
)

var ErrAccuracyTooLow = errors.New("location accuracy exceeds tolerance")

type Config struct {
	// Samples with a reported accuracy above this are discarded; a fix that
	// loose cannot place the member inside or outside a 15 m fence.
	AccuracyToleranceM float64
}

type Service interface {
	RecordSample(ctx context.Context, memberID int, req ReportSampleRequest) (*ReportSampleResponse, error)
	Recent(ctx context.Context, memberID, gymID int, window time.Duration) ([]HistoryRecord, error)
}

type service struct {
	repo  Repository
	gyms  gym.Repository
	cfg   Config
	nowFn func() time.Time
}

func NewService(repo Repository, gyms gym.Repository, cfg Config) Service {
	return &service{
		repo:  repo,
		gyms:  gyms,
		cfg:   cfg,
		nowFn: time.Now,
	}
}

// NewServiceWithClock injects a deterministic clock for tests.
func NewServiceWithClock(repo Repository, gyms gym.Repository, cfg Config, now func() time.Time) Service {
	return &service{repo: repo, gyms: gyms, cfg: cfg, nowFn: now}
}

func (s *service) RecordSample(ctx context.Context, memberID int, req ReportSampleRequest) (*ReportSampleResponse, error) {
	if req.AccuracyM > s.cfg.AccuracyToleranceM && s.cfg.AccuracyToleranceM > 0 {
		return nil, ErrAccuracyTooLow
	}

	g, err := s.gyms.GetByID(ctx, req.GymID)
	if err != nil {
		return nil, gym.ErrGymNotFound
	}

	recordedAt := s.nowFn().UTC()
	if req.RecordedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, req.RecordedAt); err == nil {
			// Client timestamps are advisory; anything ahead of the server
			// clock is clamped so replay windows stay well formed.
			if parsed.Before(recordedAt) {
				recordedAt = parsed.UTC()
			}
		}
	}

	// The within flag is derived here, never taken from the client.
	dist := geo.Distance(req.Latitude, req.Longitude, g.Latitude, g.Longitude)
	within := dist <= g.GeofenceRadiusM

	if _, err := s.repo.Append(ctx, memberID, req.GymID, recordedAt, within); err != nil {
		return nil, err
	}

	return &ReportSampleResponse{
		Recorded:         true,
		IsWithinGeofence: within,
		DistanceM:        dist,
	}, nil
}

func (s *service) Recent(ctx context.Context, memberID, gymID int, window time.Duration) ([]HistoryRecord, error) {
	since := s.nowFn().UTC().Add(-window)
	return s.repo.RecentForMemberAndGym(ctx, memberID, gymID, since)
}
