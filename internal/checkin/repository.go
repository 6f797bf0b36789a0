package checkin

import (
	"context"
	"errors"
	"time"

	"gympresence/internal/coins"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type repository struct {
	db    *sqlx.DB
	coins coins.Repository
}

func NewRepository(db *sqlx.DB, coinsRepo coins.Repository) Repository {
	return &repository{db: db, coins: coinsRepo}
}

func (r *repository) ExistsForDay(ctx context.Context, memberID, gymID int, day string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM check_ins
			WHERE member_id = $1 AND gym_id = $2 AND check_in_day = $3
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, memberID, gymID, day)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CreateWithReward writes the check-in and the earned-coins ledger row inside
// one transaction. If either insert fails everything rolls back, so a coin
// transaction can never exist without its check-in or vice versa. A unique
// violation on (member_id, gym_id, check_in_day) means a concurrent request
// won the day; it surfaces as ErrDuplicateCheckIn.
func (r *repository) CreateWithReward(ctx context.Context, ci *CheckIn) (*CheckIn, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO check_ins
			(member_id, gym_id, check_in_time, check_in_day, latitude, longitude,
			 coins_earned, presence_duration_min, check_in_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, member_id, gym_id, check_in_time, check_in_day, latitude, longitude,
		          coins_earned, presence_duration_min, check_in_type, created_at
	`

	var inserted CheckIn
	err = tx.QueryRowxContext(ctx, insertQuery,
		ci.MemberID, ci.GymID, ci.CheckInTime, ci.CheckInDay, ci.Latitude, ci.Longitude,
		ci.CoinsEarned, ci.PresenceDurationMin, ci.CheckInType,
	).StructScan(&inserted)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateCheckIn
		}
		return nil, err
	}

	_, err = r.coins.InsertInTx(ctx, tx, &coins.Transaction{
		MemberID:    inserted.MemberID,
		GymID:       inserted.GymID,
		Type:        coins.TypeEarned,
		Amount:      inserted.CoinsEarned,
		Description: "geofence check-in reward",
		ReferenceID: &inserted.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &inserted, nil
}

func (r *repository) ListRecent(ctx context.Context, memberID int, limit int) ([]CheckIn, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, member_id, gym_id, check_in_time, check_in_day, latitude, longitude,
		       coins_earned, presence_duration_min, check_in_type, created_at
		FROM check_ins
		WHERE member_id = $1
		ORDER BY check_in_time DESC
		LIMIT $2
	`

	var checkIns []CheckIn
	err := r.db.SelectContext(ctx, &checkIns, query, memberID, limit)
	if err != nil {
		return nil, err
	}

	return checkIns, nil
}

func (r *repository) CountForMonth(ctx context.Context, memberID, gymID int, ref time.Time) (int, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT COUNT(*)
		FROM check_ins
		WHERE member_id = $1 AND gym_id = $2 AND check_in_time >= $3 AND check_in_time < $4
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, memberID, gymID, start, end)
	if err != nil {
		return 0, err
	}

	return count, nil
}
