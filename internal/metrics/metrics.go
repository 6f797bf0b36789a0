package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympresence_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gympresence_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympresence_checkins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"type", "outcome"},
	)

	GeofenceViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympresence_geofence_violations_total",
			Help: "Check-in attempts rejected for being outside the geofence",
		},
	)

	PresenceRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympresence_presence_rejections_total",
			Help: "Check-in attempts rejected for insufficient continuous presence",
		},
	)

	LocationSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gympresence_location_samples_total",
			Help: "Location samples recorded, by geofence placement",
		},
		[]string{"within"},
	)

	TimerStartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympresence_timer_starts_total",
			Help: "Presence timers started",
		},
	)

	TimerCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympresence_timer_completions_total",
			Help: "Presence timers that reached the required duration",
		},
	)

	CoinsEarnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gympresence_coins_earned_total",
			Help: "Coins granted for verified check-ins",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn(checkInType, outcome string) {
	CheckInsTotal.WithLabelValues(checkInType, outcome).Inc()
}

func RecordLocationSample(within bool) {
	label := "false"
	if within {
		label = "true"
	}
	LocationSamplesTotal.WithLabelValues(label).Inc()
}

func RecordTimerStart() {
	TimerStartsTotal.Inc()
}

func RecordTimerCompletion() {
	TimerCompletionsTotal.Inc()
}

func RecordCoinsEarned(amount int) {
	CoinsEarnedTotal.Add(float64(amount))
}
