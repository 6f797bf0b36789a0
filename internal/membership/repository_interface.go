package membership

import "context"

type Repository interface {
	GetActiveForMemberAndGym(ctx context.Context, memberID, gymID int) (*Membership, error)
	HasActiveMembership(ctx context.Context, memberID, gymID int) (bool, error)
}
