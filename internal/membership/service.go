package membership

import (
	"context"
	"database/sql"
	"errors"
)

var ErrMembershipNotFound = errors.New("membership not found")

// AccessGate decides whether the geofence flow may start for a member at a
// gym. The check-in endpoint re-checks the membership itself; this gate only
// keeps the client from tracking when the answer would be no anyway.
type AccessGate interface {
	CheckAccess(ctx context.Context, memberID, gymID int) (*AccessResult, error)
}

type gate struct {
	repo Repository
	// Members who joined within the first freeLimit positions ride free;
	// everyone after needs an active paid membership.
	freeLimit int
}

func NewAccessGate(repo Repository, freeLimit int) AccessGate {
	return &gate{repo: repo, freeLimit: freeLimit}
}

func (g *gate) CheckAccess(ctx context.Context, memberID, gymID int) (*AccessResult, error) {
	m, err := g.repo.GetActiveForMemberAndGym(ctx, memberID, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &AccessResult{
				HasAccess:  false,
				Reason:     "no active membership for this gym",
				MemberType: MemberTypePaid,
			}, nil
		}
		return nil, err
	}

	memberType := MemberTypePaid
	if m.MemberPosition > 0 && m.MemberPosition <= g.freeLimit {
		memberType = MemberTypeFree
	}

	return &AccessResult{
		HasAccess:      true,
		MemberType:     memberType,
		MemberPosition: m.MemberPosition,
	}, nil
}
