// internal/common/metrics/metrics.go
package metrics

import (
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
)

var (
	InquiriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_processed_total",
			Help: "Total number of inquiries processed, by type and language",
		},
		[]string{"inquiry_type", "language"},
	)

	InquiriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_failed_total",
			Help: "Total number of inquiries that produced an error record",
		},
		[]string{"error_code"},
	)

	DuplicateEmails = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_emails_total",
			Help: "Total number of fetched emails dropped as duplicates",
		},
	)

	InquiryCompleteness = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inquiry_completeness_score",
			Help:    "Distribution of completeness scores of processed inquiries",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)
