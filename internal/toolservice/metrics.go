package toolservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cacheLookups *prometheus.CounterVec
	loadAttempts *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)

	return &metrics{
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolcat_cache_lookups_total",
				Help: "Derived-result cache lookups by operation and outcome",
			},
			[]string{"op", "result"},
		),
		loadAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolcat_load_attempts_total",
				Help: "Catalog load attempts by outcome",
			},
			[]string{"result"},
		),
	}
}

func (m *metrics) cacheHit(op string) {
	m.cacheLookups.WithLabelValues(op, "hit").Inc()
}

func (m *metrics) cacheMiss(op string) {
	m.cacheLookups.WithLabelValues(op, "miss").Inc()
}

func (m *metrics) loadAttempt(result string) {
	m.loadAttempts.WithLabelValues(result).Inc()
}
