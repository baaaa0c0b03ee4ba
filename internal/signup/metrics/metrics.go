package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sign-up workflow.
// Tracks capability outcomes, validation failures and upstream latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LocationAttempts   *prometheus.CounterVec
	DocumentPicks      *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	GeocodeDuration    prometheus.Histogram
	SubmitDuration     prometheus.Histogram
	LiveWorkflows      prometheus.Gauge
}

// New registers every sign-up metric on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LocationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_location_attempts_total",
			Help: "Location acquisition attempts by terminal state and reason",
		}, []string{"state", "reason"}),
		DocumentPicks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_document_picks_total",
			Help: "Document selections by outcome",
		}, []string{"outcome"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_submissions_total",
			Help: "Submission attempts by outcome",
		}, []string{"outcome"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_validation_failures_total",
			Help: "Validation failures by rule code",
		}, []string{"code"}),
		GeocodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_geocode_duration_seconds",
			Help:    "Duration of reverse-geocoding calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_submit_duration_seconds",
			Help:    "Duration of submission transport calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LiveWorkflows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "onboard_live_workflows",
			Help: "Sign-up workflows currently held in memory",
		}),
	}
}

// IncLocationAttempt records a finished acquisition.
func (m *Metrics) IncLocationAttempt(state, reason string) {
	if m == nil {
		return
	}
	m.LocationAttempts.WithLabelValues(state, reason).Inc()
}

// IncDocumentPick records a finished selection.
func (m *Metrics) IncDocumentPick(outcome string) {
	if m == nil {
		return
	}
	m.DocumentPicks.WithLabelValues(outcome).Inc()
}

// IncSubmission records a submission attempt.
func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// IncValidationFailure records one failed rule.
func (m *Metrics) IncValidationFailure(code string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(code).Inc()
}

// ObserveGeocode records the duration of a reverse-geocoding call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGeocode(start time.Time) {
	if m == nil {
		return
	}
	m.GeocodeDuration.Observe(time.Since(start).Seconds())
}

// ObserveSubmit records the duration of a transport call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSubmit(start time.Time) {
	if m == nil {
		return
	}
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetLiveWorkflows(n int) {
	if m == nil {
		return
	}
	m.LiveWorkflows.Set(float64(n))
}
