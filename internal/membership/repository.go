package membership

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveForMemberAndGym(ctx context.Context, memberID, gymID int) (*Membership, error) {
	query := `
		SELECT id, member_id, gym_id, plan_name, status, member_position, valid_from, valid_until, created_at
		FROM memberships
		WHERE member_id = $1 AND gym_id = $2 AND status = 'active' AND valid_until > NOW()
		ORDER BY valid_until DESC
		LIMIT 1
	`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, memberID, gymID)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) HasActiveMembership(ctx context.Context, memberID, gymID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM memberships
			WHERE member_id = $1 AND gym_id = $2 AND status = 'active' AND valid_until > NOW()
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, memberID, gymID)
	if err != nil {
		return false, err
	}

	return exists, nil
}
