package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonAlreadyParticipated = "already_participated"
	ReasonInvalidComment      = "invalid_comment"
	ReasonNotAuthorized       = "not_authorized"
	ReasonNotInitialized      = "not_initialized"
)

// Metrics provides observability for the participation module.
type Metrics struct {
	ParticipationsRecorded prometheus.Counter
	RewardsPaid            prometheus.Counter
	Rejections             *prometheus.CounterVec
	TransferFailures       prometheus.Counter
	RecordsSwept           prometheus.Counter
	ParticipateDuration    prometheus.Histogram
	SweepDuration          prometheus.Histogram
}

// New registers the module's collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ParticipationsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "edureward_participations_recorded_total",
			Help: "Participations committed after a successful reward transfer",
		}),
		RewardsPaid: f.NewCounter(prometheus.CounterOpts{
			Name: "edureward_rewards_paid_units_total",
			Help: "Reward units transferred, approximated as float64",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edureward_participation_rejections_total",
			Help: "Participation attempts rejected before any transfer",
		}, []string{"reason"}),
		TransferFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "edureward_transfer_failures_total",
			Help: "Reward transfers reported as failed by the ledger",
		}),
		RecordsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "edureward_records_swept_total",
			Help: "Expired participation records evicted by cleanup",
		}),
		ParticipateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "edureward_participate_duration_seconds",
			Help:    "Duration of participate including the ledger call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "edureward_cleanup_duration_seconds",
			Help:    "Duration of expired record cleanup runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}
}

// IncrementParticipation records a committed participation and its payout.
func (m *Metrics) IncrementParticipation(reward float64) {
	m.ParticipationsRecorded.Inc()
	if reward > 0 {
		m.RewardsPaid.Add(reward)
	}
}

func (m *Metrics) IncrementRejection(reason string) {
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementTransferFailure() {
	m.TransferFailures.Inc()
}

func (m *Metrics) AddRecordsSwept(n int) {
	m.RecordsSwept.Add(float64(n))
}

// ObserveParticipate records the duration of a participate call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveParticipate(start time.Time) {
	m.ParticipateDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveSweep(start time.Time) {
	m.SweepDuration.Observe(time.Since(start).Seconds())
}
