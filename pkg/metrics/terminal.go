package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records cashier workflow activity.
type TerminalMetrics struct {
	submissionSuccess *prometheus.CounterVec
	submissionFailure *prometheus.CounterVec
	searchDuration    prometheus.Histogram
	receiptsPrinted   prometheus.Counter
}

// NewTerminalMetrics registers the terminal metrics on the provided registerer.
func NewTerminalMetrics(reg prometheus.Registerer) *TerminalMetrics {
	if reg == nil {
		return &TerminalMetrics{}
	}
	submissionSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_submission_success",
		Help: "Successful transaction submissions.",
	}, []string{"payment_method"})
	submissionFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_submission_failure",
		Help: "Failed transaction submissions.",
	}, []string{"reason"})
	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_duration_seconds",
		Help:    "Duration of catalog lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	receiptsPrinted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_printed",
		Help: "Receipts rendered for printing.",
	})
	reg.MustRegister(submissionSuccess, submissionFailure, searchDuration, receiptsPrinted)
	return &TerminalMetrics{
		submissionSuccess: submissionSuccess,
		submissionFailure: submissionFailure,
		searchDuration:    searchDuration,
		receiptsPrinted:   receiptsPrinted,
	}
}

// IncSubmissionSuccess counts a confirmed submission for the given method.
func (m *TerminalMetrics) IncSubmissionSuccess(method string) {
	if m == nil || m.submissionSuccess == nil {
		return
	}
	m.submissionSuccess.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncSubmissionFailure counts a failed submission by failure reason.
func (m *TerminalMetrics) IncSubmissionFailure(reason string) {
	if m == nil || m.submissionFailure == nil {
		return
	}
	m.submissionFailure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveSearchDuration records a catalog lookup duration.
func (m *TerminalMetrics) ObserveSearchDuration(duration time.Duration) {
	if m == nil || m.searchDuration == nil {
		return
	}
	m.searchDuration.Observe(duration.Seconds())
}

// IncReceiptPrinted counts one rendered receipt.
func (m *TerminalMetrics) IncReceiptPrinted() {
	if m == nil || m.receiptsPrinted == nil {
		return
	}
	m.receiptsPrinted.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
