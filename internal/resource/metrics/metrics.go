package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the resource service. All methods are
// nil-safe so wiring metrics stays optional.
type Metrics struct {
	// Operation outcomes by operation name and result
	Operations *prometheus.CounterVec

	// Operation latency by operation name
	OperationLatency *prometheus.HistogramVec

	// Attachment uploads by kind
	AttachmentsUploaded *prometheus.CounterVec

	// Cache hits and misses on record reads
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance with all resource service metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseconnect_resource_operations_total",
			Help: "Total resource operations by name and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "not_found", "error"

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseconnect_resource_operation_duration_seconds",
			Help:    "Duration of resource operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		AttachmentsUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseconnect_attachments_uploaded_total",
			Help: "Total attachments uploaded by kind",
		}, []string{"kind"}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseconnect_resource_cache_lookups_total",
			Help: "Record cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"
	}
}

// ObserveOperation records one operation's outcome and duration.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncAttachmentUploaded counts one stored attachment.
func (m *Metrics) IncAttachmentUploaded(kind string) {
	if m != nil {
		m.AttachmentsUploaded.WithLabelValues(kind).Inc()
	}
}

// IncCacheLookup counts a cache hit or miss.
func (m *Metrics) IncCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
