package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "organizer", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "organizer", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// PersistenceSaves counts client-side snapshot writes by backend (local|remote) and result (ok|error).
	PersistenceSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "organizer", Name: "persistence_saves_total", Help: "Snapshot saves by backend and result."},
		[]string{"backend", "result"},
	)
	// PersistenceLoads counts startup loads by the source that provided the snapshot (remote|local|none).
	PersistenceLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "organizer", Name: "persistence_loads_total", Help: "Snapshot loads by source."},
		[]string{"source"},
	)
	SnapshotSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "organizer", Name: "snapshot_saves_total", Help: "Snapshots received by the sync server by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(PersistenceSaves)
	reg.MustRegister(PersistenceLoads)
	reg.MustRegister(SnapshotSaves)
}
