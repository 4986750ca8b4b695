// Package metrics exposes Prometheus counters for store activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/salesdesk/internal/crm"
)

// Recorder owns a private registry so tests can build as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	mutations     *prometheus.CounterVec
	importRows    *prometheus.CounterVec
	snapshots     *prometheus.CounterVec
	snapshotBytes prometheus.Histogram
}

// New registers the salesdesk collectors plus the Go runtime collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "mutations_total",
			Help:      "Committed store mutations by kind.",
		}, []string{"kind"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "import_rows_total",
			Help:      "CSV import rows by kind and outcome (merged or dropped).",
		}, []string{"kind", "outcome"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesdesk",
			Name:      "snapshot_writes_total",
			Help:      "Snapshot write attempts by result.",
		}, []string{"result"}),
		snapshotBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salesdesk",
			Name:      "snapshot_bytes",
			Help:      "Size of written snapshots.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
	r.registry.MustRegister(
		r.mutations,
		r.importRows,
		r.snapshots,
		r.snapshotBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveChange is a crm change hook.
func (r *Recorder) ObserveChange(c crm.Change) {
	r.mutations.WithLabelValues(string(c.Kind)).Inc()

	var kind string
	switch c.Kind {
	case crm.ChangeClientsImported:
		kind = "clients"
	case crm.ChangeProductsImported:
		kind = "products"
	default:
		return
	}
	r.importRows.WithLabelValues(kind, "merged").Add(float64(c.Merged))
	r.importRows.WithLabelValues(kind, "dropped").Add(float64(c.Dropped))
}

// ObserveSnapshot is a crm snapshot hook.
func (r *Recorder) ObserveSnapshot(size int, err error) {
	if err != nil {
		r.snapshots.WithLabelValues("error").Inc()
		return
	}
	r.snapshots.WithLabelValues("ok").Inc()
	r.snapshotBytes.Observe(float64(size))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
