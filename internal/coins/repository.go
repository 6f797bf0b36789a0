package coins

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

func (r *repository) Balance(ctx context.Context, memberID int) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'earned' THEN amount ELSE -amount END), 0)
		FROM coin_transactions
		WHERE member_id = $1
	`

	var balance int64
	err := r.db.GetContext(ctx, &balance, query, memberID)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *repository) List(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, member_id, gym_id, type, amount, description, reference_id, created_at
		FROM coin_transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, query, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *repository) InsertInTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO coin_transactions (member_id, gym_id, type, amount, description, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, member_id, gym_id, type, amount, description, reference_id, created_at
	`

	var inserted Transaction
	err := tx.QueryRowxContext(ctx, query,
		t.MemberID, t.GymID, t.Type, t.Amount, t.Description, t.ReferenceID,
	).StructScan(&inserted)
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}
