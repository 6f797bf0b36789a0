package checkin

import (
	"context"
	"time"
)

type Repository interface {
	ExistsForDay(ctx context.Context, memberID, gymID int, day string) (bool, error)
	// CreateWithReward inserts the check-in and its paired coin transaction
	// in one database transaction: both commit or neither does.
	CreateWithReward(ctx context.Context, ci *CheckIn) (*CheckIn, error)
	// ListRecent returns the member's check-ins, newest first.
	ListRecent(ctx context.Context, memberID int, limit int) ([]CheckIn, error)
	CountForMonth(ctx context.Context, memberID, gymID int, ref time.Time) (int, error)
}
