package location

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, memberID, gymID int, recordedAt time.Time, within bool) (*HistoryRecord, error)
	// RecentForMemberAndGym returns records since the cutoff, oldest first,
	// ready for presence replay.
	RecentForMemberAndGym(ctx context.Context, memberID, gymID int, since time.Time) ([]HistoryRecord, error)
}
