package presence

import (
	"sort"
	"time"
)

// Point is one timestamped geofence observation: a client sample or a stored
// location history row.
type Point struct {
	At     time.Time
	Within bool
}

// Validator replays a series of observations and independently recomputes
// continuous presence. It deliberately does not share state with the live
// tracker: requiring the single accumulator and the history replay to agree
// keeps one noisy event from fooling either signal on its own.
type Validator struct {
	Required time.Duration
	MaxGap   time.Duration
}

// ContinuousDuration walks points in time order and accumulates the gap
// between consecutive observations. An observation outside the geofence, or a
// gap above MaxGap, resets the accumulator: only the latest unbroken run
// counts.
func (v Validator) ContinuousDuration(points []Point) time.Duration {
	if len(points) < 2 {
		return 0
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	var acc time.Duration
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].At.Sub(sorted[i-1].At)
		if !sorted[i].Within || gap > v.MaxGap {
			acc = 0
			continue
		}
		acc += gap
	}

	return acc
}

// HasRequiredPresence is true only when the replayed continuous duration
// meets the requirement AND the live tracker currently reports inside.
func (v Validator) HasRequiredPresence(points []Point, currentlyInside bool) bool {
	if !currentlyInside {
		return false
	}
	return v.ContinuousDuration(points) >= v.Required
}

// ContinuousMinutes floors the replayed duration to whole minutes, the unit
// rejection responses report back to the caller.
func (v Validator) ContinuousMinutes(points []Point) int {
	return int(v.ContinuousDuration(points) / time.Minute)
}
