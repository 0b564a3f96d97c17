// Package metrics exposes the engine's Prometheus collectors. Nothing in
// spec.md calls for metrics explicitly, but every other package in the
// example pack that runs a long-lived loop (harpoon-scheduler included)
// registers client_golang collectors next to it, so the unit library does
// the same for its own rescan/load activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors the library updates during every Rescan
// call; the Upsert/Remove calls do not touch them. Register it with a prometheus.Registerer once, at
// startup, and pass the *Metrics down into library.New.
type Metrics struct {
	DescriptionsLoaded *prometheus.GaugeVec
	LiveUnits          *prometheus.GaugeVec
	RescanTotal        prometheus.Counter
	RescanDuration     prometheus.Histogram
	Incompatible       *prometheus.CounterVec
	ActivateFailures   prometheus.Counter
}

// New builds a Metrics with all collectors constructed but not yet
// registered.
func New() *Metrics {
	return &Metrics{
		DescriptionsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "unitd",
			Name:      "descriptions_loaded",
			Help:      "Number of unit descriptions currently held, by kind.",
		}, []string{"kind"}),
		LiveUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "unitd",
			Name:      "live_units",
			Help:      "Number of live (selected) unit instances, by kind.",
		}, []string{"kind"}),
		RescanTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unitd",
			Name:      "rescans_total",
			Help:      "Number of completed Rescan transactions.",
		}),
		RescanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unitd",
			Name:      "rescan_duration_seconds",
			Help:      "Wall-clock duration of a Rescan transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
		Incompatible: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unitd",
			Name:      "incompatible_total",
			Help:      "Number of UnitIncompatible outcomes during Select, by kind.",
		}, []string{"kind"}),
		ActivateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unitd",
			Name:      "activate_failures_total",
			Help:      "Number of interface Activate calls that failed.",
		}),
	}
}

// MustRegister registers every collector on reg, panicking on a
// duplicate registration - the same convention the teacher's main
// packages use at startup, before anything can race on it.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.DescriptionsLoaded,
		m.LiveUnits,
		m.RescanTotal,
		m.RescanDuration,
		m.Incompatible,
		m.ActivateFailures,
	)
}
