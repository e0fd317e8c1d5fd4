package sessionkeys

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dc = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_key_derivation_count",
		Help: "The number of derived session keys (per key type).",
	}, []string{"key"})
	ec = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_key_derivation_error_count",
		Help: "The number of failed derivation requests (per error kind).",
	}, []string{"kind"})
)

func derivedKey(k string) prometheus.Counter {
	return dc.With(prometheus.Labels{"key": k})
}

func derivationError(k string) prometheus.Counter {
	return ec.With(prometheus.Labels{"kind": k})
}
