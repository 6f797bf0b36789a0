package location

import "time"

// HistoryRecord is one server-persisted geofence observation. The client
// reports raw coordinates; the server derives is_within_geofence itself and
// only the flag and the timestamp are replayed at check-in time.
type HistoryRecord struct {
	ID               int       `db:"id" json:"id"`
	MemberID         int       `db:"member_id" json:"member_id"`
	GymID            int       `db:"gym_id" json:"gym_id"`
	RecordedAt       time.Time `db:"recorded_at" json:"recorded_at"`
	IsWithinGeofence bool      `db:"is_within_geofence" json:"is_within_geofence"`
}

type ReportSampleRequest struct {
	GymID      int     `json:"gym_id" binding:"required"`
	Latitude   float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	AccuracyM  float64 `json:"accuracy_m" binding:"omitempty,gte=0"`
	RecordedAt string  `json:"recorded_at" binding:"omitempty"`
}

type ReportSampleResponse struct {
	Recorded         bool    `json:"recorded"`
	IsWithinGeofence bool    `json:"is_within_geofence"`
	DistanceM        float64 `json:"distance_m"`
}
