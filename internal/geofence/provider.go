package geofence

import (
	"context"
	"errors"
	"time"
)

// Sample is one raw reading from a location provider.
type Sample struct {
	Latitude  float64
	Longitude float64
	AccuracyM float64
	At        time.Time
}

// Provider failure causes. Each is surfaced as a distinct user-facing state;
// "enable location access" and "try moving outdoors" are different advice.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// Provider streams location samples. Errors arrive on the second channel and
// do not terminate the stream; providers keep retrying until ctx is done.
type Provider interface {
	Watch(ctx context.Context) (<-chan Sample, <-chan error)
}
