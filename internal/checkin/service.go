package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gympresence/internal/coins"
	"gympresence/internal/geo"
	"gympresence/internal/gym"
	"gympresence/internal/location"
	"gympresence/internal/logger"
	"gympresence/internal/membership"
	"gympresence/internal/presence"
	"gympresence/internal/timer"
)

var (
	ErrMissingFields      = errors.New("member and gym are required")
	ErrDuplicateCheckIn   = errors.New("already checked in today")
	ErrMembershipInactive = errors.New("no active membership for this gym")
)

// GeofenceViolationError carries the measured distance so the caller can tell
// the member how far off they are.
type GeofenceViolationError struct {
	DistanceM float64
	AllowedM  float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("outside geofence: %.1f m from gym, allowed %.1f m", e.DistanceM, e.AllowedM)
}

// InsufficientPresenceError carries the replayed minutes for the same reason.
type InsufficientPresenceError struct {
	ContinuousMinutes int
	RequiredMinutes   int
}

func (e *InsufficientPresenceError) Error() string {
	return fmt.Sprintf("insufficient presence: %d of %d required minutes", e.ContinuousMinutes, e.RequiredMinutes)
}

const DefaultCheckInType = "geofence"

type Config struct {
	RequiredPresence time.Duration
	MaxSampleGap     time.Duration
	HistoryWindow    time.Duration
	RewardCoins      int
}

type Service interface {
	// CheckIn is the authoritative validation path: it re-derives distance
	// and presence from stored data and never trusts client claims beyond
	// the optional coordinates used for early feedback.
	CheckIn(ctx context.Context, memberID int, req Request) (*Result, error)
	History(ctx context.Context, memberID int, limit int) ([]CheckIn, error)
}

type service struct {
	repo        Repository
	gyms        gym.Repository
	memberships membership.Repository
	coins       coins.Repository
	locations   location.Repository
	validator   presence.Validator
	clock       timer.Clock
	cfg         Config
}

func NewService(
	repo Repository,
	gyms gym.Repository,
	memberships membership.Repository,
	coinsRepo coins.Repository,
	locations location.Repository,
	clock timer.Clock,
	cfg Config,
) Service {
	return &service{
		repo:        repo,
		gyms:        gyms,
		memberships: memberships,
		coins:       coinsRepo,
		locations:   locations,
		validator: presence.Validator{
			Required: cfg.RequiredPresence,
			MaxGap:   cfg.MaxSampleGap,
		},
		clock: clock,
		cfg:   cfg,
	}
}

func (s *service) CheckIn(ctx context.Context, memberID int, req Request) (*Result, error) {
	if memberID <= 0 || req.GymID <= 0 {
		return nil, ErrMissingFields
	}

	checkInType := req.CheckInType
	if checkInType == "" {
		checkInType = DefaultCheckInType
	}

	g, err := s.gyms.GetByID(ctx, req.GymID)
	if err != nil {
		return nil, gym.ErrGymNotFound
	}

	// Client coordinates are advisory: when present they give the member an
	// early distance rejection, but the decision below never rests on them.
	if req.Latitude != nil && req.Longitude != nil {
		dist := geo.Distance(*req.Latitude, *req.Longitude, g.Latitude, g.Longitude)
		if dist > g.GeofenceRadiusM {
			return nil, &GeofenceViolationError{DistanceM: dist, AllowedM: g.GeofenceRadiusM}
		}
	}

	now := s.clock.Now()

	records, err := s.locations.RecentForMemberAndGym(ctx, memberID, req.GymID, now.Add(-s.cfg.HistoryWindow))
	if err != nil {
		return nil, err
	}

	points := make([]presence.Point, 0, len(records))
	for _, r := range records {
		points = append(points, presence.Point{At: r.RecordedAt, Within: r.IsWithinGeofence})
	}

	continuous := s.validator.ContinuousDuration(points)
	if continuous < s.cfg.RequiredPresence {
		return nil, &InsufficientPresenceError{
			ContinuousMinutes: int(continuous / time.Minute),
			RequiredMinutes:   int(s.cfg.RequiredPresence / time.Minute),
		}
	}

	day := timer.DayKey(now)
	exists, err := s.repo.ExistsForDay(ctx, memberID, req.GymID, day)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCheckIn
	}

	active, err := s.memberships.HasActiveMembership(ctx, memberID, req.GymID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrMembershipInactive
	}

	inserted, err := s.repo.CreateWithReward(ctx, &CheckIn{
		MemberID:            memberID,
		GymID:               req.GymID,
		CheckInTime:         now,
		CheckInDay:          day,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		CoinsEarned:         s.cfg.RewardCoins,
		PresenceDurationMin: int(continuous / time.Minute),
		CheckInType:         checkInType,
	})
	if err != nil {
		// The unique index closes the check-then-insert race: a concurrent
		// request that slipped past ExistsForDay loses here.
		return nil, err
	}

	logger.Info("check-in recorded",
		"member_id", memberID, "gym_id", req.GymID,
		"presence_min", inserted.PresenceDurationMin, "coins", inserted.CoinsEarned)

	return s.buildResult(ctx, memberID, req.GymID, inserted, now)
}

func (s *service) History(ctx context.Context, memberID int, limit int) ([]CheckIn, error) {
	return s.repo.ListRecent(ctx, memberID, limit)
}

func (s *service) buildResult(ctx context.Context, memberID, gymID int, ci *CheckIn, now time.Time) (*Result, error) {
	total, err := s.coins.Balance(ctx, memberID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.ListRecent(ctx, memberID, 30)
	if err != nil {
		return nil, err
	}

	monthly, err := s.repo.CountForMonth(ctx, memberID, gymID, now)
	if err != nil {
		return nil, err
	}

	return &Result{
		CheckInID:           ci.ID,
		CheckInTime:         ci.CheckInTime,
		CoinsEarned:         ci.CoinsEarned,
		TotalCoins:          total,
		Streak:              computeStreak(recent),
		MonthlyVisits:       monthly,
		PresenceDurationMin: ci.PresenceDurationMin,
	}, nil
}

// computeStreak counts consecutive calendar days ending at the most recent
// check-in. Input must be sorted newest first; same-day duplicates collapse.
func computeStreak(checkIns []CheckIn) int {
	if len(checkIns) == 0 {
		return 0
	}

	days := make([]string, 0, len(checkIns))
	for _, ci := range checkIns {
		day := ci.CheckInDay
		if day == "" {
			day = timer.DayKey(ci.CheckInTime)
		}
		if len(days) == 0 || days[len(days)-1] != day {
			days = append(days, day)
		}
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		prev, err1 := time.Parse("2006-01-02", days[i-1])
		cur, err2 := time.Parse("2006-01-02", days[i])
		if err1 != nil || err2 != nil {
			break
		}
		if prev.Sub(cur) != 24*time.Hour {
			break
		}
		streak++
	}

	return streak
}
