package gym

import "time"

// Gym is a directory entry: a fixed coordinate plus the geofence radius the
// check-in endpoint enforces around it.
type Gym struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Address         string    `db:"address" json:"address"`
	Latitude        float64   `db:"latitude" json:"latitude"`
	Longitude       float64   `db:"longitude" json:"longitude"`
	GeofenceRadiusM float64   `db:"geofence_radius_m" json:"geofence_radius_m"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address" binding:"required"`
	Latitude        float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	GeofenceRadiusM float64 `json:"geofence_radius_m" binding:"omitempty,gt=0"`
}
