package coins

import "time"

type TransactionType string

const (
	TypeEarned TransactionType = "earned"
	TypeSpent  TransactionType = "spent"
)

// Transaction is one coin ledger entry. An "earned" row rewarding a check-in
// references that check-in and must exist iff the check-in row does; the two
// are written in one database transaction.
type Transaction struct {
	ID          int             `db:"id" json:"id"`
	MemberID    int             `db:"member_id" json:"member_id"`
	GymID       int             `db:"gym_id" json:"gym_id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      int             `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	ReferenceID *int            `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type BalanceResponse struct {
	MemberID int   `json:"member_id"`
	Balance  int64 `json:"balance"`
}
