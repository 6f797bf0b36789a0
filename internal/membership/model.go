package membership

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "cancelled"
)

type MemberType string

const (
	MemberTypeFree MemberType = "free"
	MemberTypePaid MemberType = "paid"
)

type Membership struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	GymID          int       `db:"gym_id" json:"gym_id"`
	PlanName       string    `db:"plan_name" json:"plan_name"`
	Status         Status    `db:"status" json:"status"`
	MemberPosition int       `db:"member_position" json:"member_position"`
	ValidFrom      time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil     time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// AccessResult is the gate decision consulted before any geofence tracking
// starts. MemberPosition is the join order at the gym; the first-N-free rule
// is applied to it here, but the position itself is maintained externally.
type AccessResult struct {
	HasAccess      bool       `json:"has_access"`
	Reason         string     `json:"reason,omitempty"`
	MemberType     MemberType `json:"member_type"`
	MemberPosition int        `json:"member_position"`
}
