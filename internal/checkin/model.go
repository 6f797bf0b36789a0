package checkin

import "time"

// CheckIn is the durable record of one verified visit. CheckInDay is the UTC
// calendar day; a unique index over (member_id, gym_id, check_in_day) is what
// ultimately guarantees at most one row per day, whatever races reach the
// insert.
type CheckIn struct {
	ID                  int       `db:"id" json:"id"`
	MemberID            int       `db:"member_id" json:"member_id"`
	GymID               int       `db:"gym_id" json:"gym_id"`
	CheckInTime         time.Time `db:"check_in_time" json:"check_in_time"`
	CheckInDay          string    `db:"check_in_day" json:"check_in_day"`
	Latitude            *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude           *float64  `db:"longitude" json:"longitude,omitempty"`
	CoinsEarned         int       `db:"coins_earned" json:"coins_earned"`
	PresenceDurationMin int       `db:"presence_duration_min" json:"presence_duration_min"`
	CheckInType         string    `db:"check_in_type" json:"check_in_type"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

type Request struct {
	GymID       int      `json:"gym_id"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	CheckInType string   `json:"check_in_type,omitempty"`
}

type Result struct {
	CheckInID           int       `json:"check_in_id"`
	CheckInTime         time.Time `json:"check_in_time"`
	CoinsEarned         int       `json:"coins_earned"`
	TotalCoins          int64     `json:"total_coins"`
	Streak              int       `json:"streak"`
	MonthlyVisits       int       `json:"monthly_visits"`
	PresenceDurationMin int       `json:"presence_duration_min"`
}
