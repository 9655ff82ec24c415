package xmiimport

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"xmimodel/src/domain/xmi"
)

// Metrics counts imported records and logged errors. A nil *Metrics records nothing.
type Metrics struct {
	records  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmi",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Document records processed, by collection and outcome.",
		}, []string{"collection", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmi",
			Subsystem: "import",
			Name:      "errors_total",
			Help:      "Errors logged while decoding documents, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xmi",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Time spent importing one document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	registerer.MustRegister(m.records, m.errors, m.duration)
	return m
}

func (m *Metrics) observeRecord(collection string, decoded bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if decoded {
		outcome = "decoded"
	}
	m.records.WithLabelValues(collection, outcome).Inc()
}

func (m *Metrics) observeErrors(log xmi.ErrorLog) {
	if m == nil {
		return
	}
	for _, err := range log {
		m.errors.WithLabelValues(errorKind(err)).Inc()
	}
}

func (m *Metrics) observeDuration(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}

var errorKinds = []struct {
	kind  error
	label string
}{
	{xmi.ErrMissingReferenceInstance, "missing_reference"},
	{xmi.ErrMissingRequiredAttribute, "missing_required"},
	{xmi.ErrMissingAttribute, "missing"},
	{xmi.ErrInconsistentDataType, "inconsistent_type"},
	{xmi.ErrTypeViolation, "type_violation"},
	{xmi.ErrMutualExclusivity, "mutual_exclusivity"},
	{xmi.ErrInstantiation, "instantiation"},
}

func errorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			return k.label
		}
	}
	return "other"
}
