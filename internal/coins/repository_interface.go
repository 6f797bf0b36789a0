package coins

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Balance is the lifetime sum over the member's ledger: earned rows
	// count positive, spent rows negative.
	Balance(ctx context.Context, memberID int) (int64, error)
	List(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error)
	// InsertInTx appends a ledger row inside a caller-owned transaction so a
	// reward can commit or roll back together with its check-in.
	InsertInTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) (*Transaction, error)
}
