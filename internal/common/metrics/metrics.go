// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	FeatureChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_feature_checks_total",
			Help: "Feature gate decisions by tier, feature and outcome",
		},
		[]string{"tier", "feature", "allowed"},
	)

	RowsMasked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_rows_masked_total",
			Help: "Result rows hidden behind the upgrade prompt",
		},
		[]string{"tier"},
	)

	QuotaDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlement_quota_denials_total",
			Help: "Requests refused because a plan quota was used up",
		},
		[]string{"tier", "quota"},
	)
)

// RecordFeatureCheck counts one feature gate decision.
func RecordFeatureCheck(tier, feature string, allowed bool) {
	FeatureChecks.WithLabelValues(tier, feature, strconv.FormatBool(allowed)).Inc()
}

// RecordRowsMasked adds n masked rows for the tier. Zero is ignored.
func RecordRowsMasked(tier string, n int) {
	if n <= 0 {
		return
	}
	RowsMasked.WithLabelValues(tier).Add(float64(n))
}

func RecordQuotaDenial(tier, quota string) {
	QuotaDenials.WithLabelValues(tier, quota).Inc()
}
