package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	phaseDuration    *prom.HistogramVec
	tagsPlanned      *prom.CounterVec
	assetResults     *prom.CounterVec
	externals        prom.Counter
	documentsSkipped prom.Counter
	mismatches       prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "htmltags",
			Name:      "phase_duration_seconds",
			Help:      "Duration of the before/after tag generation phases per document",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		tagsPlanned: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "htmltags",
			Name:      "tags_planned_total",
			Help:      "Tags inserted into host asset lists by kind and bucket",
		}, []string{"kind", "bucket"}),
		assetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "htmltags",
			Name:      "asset_registrations_total",
			Help:      "sourcePath asset registrations by outcome",
		}, []string{"result"}),
		externals: prom.NewCounter(prom.CounterOpts{
			Namespace: "htmltags",
			Name:      "externals_registered_total",
			Help:      "External module registrations handed to the host",
		}),
		documentsSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "htmltags",
			Name:      "documents_skipped_total",
			Help:      "Documents excluded by the files filter",
		}),
		mismatches: prom.NewCounter(prom.CounterOpts{
			Namespace: "htmltags",
			Name:      "tag_slice_mismatches_total",
			Help:      "Generated tags that had to be located by URL instead of position",
		}),
	}
	reg.MustRegister(pr.phaseDuration, pr.tagsPlanned, pr.assetResults, pr.externals, pr.documentsSkipped, pr.mismatches)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTagsPlanned(kind, bucket string, n int) {
	if p == nil || n == 0 {
		return
	}
	p.tagsPlanned.WithLabelValues(kind, bucket).Add(float64(n))
}

func (p *PrometheusRecorder) IncAssetRegistration(result ResultLabel) {
	if p == nil {
		return
	}
	p.assetResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncExternalRegistered() {
	if p == nil {
		return
	}
	p.externals.Inc()
}

func (p *PrometheusRecorder) IncDocumentSkipped() {
	if p == nil {
		return
	}
	p.documentsSkipped.Inc()
}

func (p *PrometheusRecorder) IncAttributeMismatch() {
	if p == nil {
		return
	}
	p.mismatches.Inc()
}

// WriteTextfile writes every metric gathered by g to path in the Prometheus
// text format, replacing the file atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	return prom.WriteToTextfile(path, g)
}
