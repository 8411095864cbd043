package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SummariesBuilt       prometheus.Counter
	IneligibleDrafts     prometheus.Counter
	Commits              *prometheus.CounterVec
	DuplicatesRejected   prometheus.Counter
	RollbacksPerformed   prometheus.Counter
	Decisions            *prometheus.CounterVec
	CommitDuration       prometheus.Histogram
	SummaryBuildDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		SummariesBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_summaries_built_total",
			Help: "Registration summaries computed",
		}),
		IneligibleDrafts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_ineligible_drafts_total",
			Help: "Summaries short-circuited by an ineligible verdict",
		}),
		Commits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rinkside_commits_total",
			Help: "Registration commit attempts by outcome",
		}, []string{"outcome"}),
		DuplicatesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_duplicate_registrations_total",
			Help: "Commits rejected by the duplicate constraint",
		}),
		RollbacksPerformed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rinkside_commit_rollbacks_total",
			Help: "Compensating rollbacks after a partial commit",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rinkside_registration_decisions_total",
			Help: "Admin approve/reject decisions",
		}, []string{"decision"}),
		CommitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rinkside_commit_duration_seconds",
			Help:    "Duration of registration commits",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		SummaryBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rinkside_summary_build_duration_seconds",
			Help:    "Duration of summary builds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObserveSummaryBuild(start time.Time) {
	m.SummaryBuildDuration.Observe(time.Since(start).Seconds())
	m.SummariesBuilt.Inc()
}

func (m *Metrics) IncIneligible() { m.IneligibleDrafts.Inc() }

func (m *Metrics) ObserveCommit(start time.Time, outcome string) {
	m.CommitDuration.Observe(time.Since(start).Seconds())
	m.Commits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncDuplicate() { m.DuplicatesRejected.Inc() }
func (m *Metrics) IncRollback()  { m.RollbacksPerformed.Inc() }

func (m *Metrics) IncDecision(decision string) { m.Decisions.WithLabelValues(decision).Inc() }
