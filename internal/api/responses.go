package api

// Failure codes returned in ErrorResponse.Code. Clients branch on these
// instead of parsing the message.
const (
	CodeMissingFields        = "missing_fields"
	CodeGymNotFound          = "gym_not_found"
	CodeGeofenceViolation    = "geofence_violation"
	CodeInsufficientPresence = "insufficient_presence"
	CodeAlreadyCheckedIn     = "already_checked_in"
	CodeMembershipInactive   = "membership_inactive"
	CodeInternalError        = "internal_error"
)

// ErrorResponse carries the measured value that caused a rejection so the
// caller can render actionable guidance ("move closer", "stay longer").
type ErrorResponse struct {
	Error             string   `json:"error" example:"something went wrong"`
	Code              string   `json:"code,omitempty" example:"geofence_violation"`
	DistanceM         *float64 `json:"distance_m,omitempty"`
	ContinuousMinutes *int     `json:"continuous_minutes,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
