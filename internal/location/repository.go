package location

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, memberID, gymID int, recordedAt time.Time, within bool) (*HistoryRecord, error) {
	query := `
		INSERT INTO location_history (member_id, gym_id, recorded_at, is_within_geofence)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, gym_id, recorded_at, is_within_geofence
	`

	var rec HistoryRecord
	err := r.db.GetContext(ctx, &rec, query, memberID, gymID, recordedAt, within)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) RecentForMemberAndGym(ctx context.Context, memberID, gymID int, since time.Time) ([]HistoryRecord, error) {
	query := `
		SELECT id, member_id, gym_id, recorded_at, is_within_geofence
		FROM location_history
		WHERE member_id = $1 AND gym_id = $2 AND recorded_at >= $3
		ORDER BY recorded_at ASC
	`

	var records []HistoryRecord
	err := r.db.SelectContext(ctx, &records, query, memberID, gymID, since)
	if err != nil {
		return nil, err
	}

	return records, nil
}
