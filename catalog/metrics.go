package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus counters for model loading and validation. A
// nil *Metrics records nothing.
type Metrics struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	modelsLoaded *prometheus.CounterVec
	loadFailures *prometheus.CounterVec
	validations  *prometheus.CounterVec
	defects      *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "model_cache",
			Name:      "hits_total",
			Help:      "Total number of model cache hits",
		}, []string{"namespace"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "model_cache",
			Name:      "misses_total",
			Help:      "Total number of model cache misses",
		}, []string{"namespace"}),
		modelsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "model_cache",
			Name:      "loads_total",
			Help:      "Total number of models added to the cache",
		}, []string{"namespace"}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "model_cache",
			Name:      "load_failures_total",
			Help:      "Total number of schema documents that could not be parsed",
		}, []string{"namespace"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "validation",
			Name:      "results_total",
			Help:      "Total number of validations by outcome",
		}, []string{"outcome"}),
		defects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "endpointcatalog",
			Subsystem: "validation",
			Name:      "defects_total",
			Help:      "Total number of defects by kind",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.cacheHits, m.cacheMisses, m.modelsLoaded, m.loadFailures, m.validations, m.defects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) cacheHit(ns Namespace) {
	if m != nil {
		m.cacheHits.WithLabelValues(string(ns)).Inc()
	}
}

func (m *Metrics) cacheMiss(ns Namespace) {
	if m != nil {
		m.cacheMisses.WithLabelValues(string(ns)).Inc()
	}
}

func (m *Metrics) modelLoaded(ns Namespace) {
	if m != nil {
		m.modelsLoaded.WithLabelValues(string(ns)).Inc()
	}
}

func (m *Metrics) loadFailed(ns Namespace) {
	if m != nil {
		m.loadFailures.WithLabelValues(string(ns)).Inc()
	}
}

// validated records the outcome and the defect kinds of r.
func (m *Metrics) validated(r *ValidationResult) {
	if m == nil {
		return
	}
	outcome := "success"
	if !r.IsSuccess() {
		outcome = "failure"
	}
	m.validations.WithLabelValues(outcome).Inc()
	for _, d := range r.Defects {
		m.defects.WithLabelValues(d.Kind.String()).Inc()
	}
}
