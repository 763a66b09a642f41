package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "rakelog_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	submissionsTotal   *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	submitLatency      *prometheus.HistogramVec
	exportFetchTotal   *prometheus.CounterVec
	exportFetchLatency *prometheus.HistogramVec
	summaryRunsTotal   *prometheus.CounterVec
)

// Init registers the service metrics with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "submissions_total",
				Help: "Total rake submissions by status",
			},
			[]string{"status"},
		)
		validationErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_errors_total",
				Help: "Total field validation errors by kind",
			},
			[]string{"kind"},
		)
		submitLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "submit_latency_seconds",
				Help:    "Latency of the outbound spreadsheet submission in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		exportFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_fetch_total",
				Help: "Total spreadsheet export fetches by result",
			},
			[]string{"result"},
		)
		exportFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_fetch_latency_seconds",
				Help:    "Spreadsheet export fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		summaryRunsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "daily_summary_runs_total",
				Help: "Total daily summary job runs by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			submissionsTotal,
			validationErrors,
			submitLatency,
			exportFetchTotal,
			exportFetchLatency,
			summaryRunsTotal,
		)
	})
}

// IncSubmission counts a submission attempt by its final status.
func IncSubmission(status string) {
	if submissionsTotal != nil {
		submissionsTotal.WithLabelValues(status).Inc()
	}
}

// IncValidationError counts one field error of the given kind.
func IncValidationError(kind string) {
	if validationErrors != nil {
		validationErrors.WithLabelValues(kind).Inc()
	}
}

// ObserveSubmit records the outbound call latency.
func ObserveSubmit(result string, duration time.Duration) {
	if submitLatency != nil {
		submitLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExportFetch records a table fetch from the spreadsheet.
func ObserveExportFetch(result string, duration time.Duration) {
	if exportFetchTotal != nil {
		exportFetchTotal.WithLabelValues(result).Inc()
	}
	if exportFetchLatency != nil {
		exportFetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncSummaryRun counts a daily summary job run.
func IncSummaryRun(result string) {
	if summaryRunsTotal != nil {
		summaryRunsTotal.WithLabelValues(result).Inc()
	}
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
