// Package metrics records upload and preset activity as prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload kinds reported in the kind label.
const (
	KindModel    = "model"
	KindAR       = "ar_companion"
	KindPreview  = "preview"
	KindManifest = "manifest"
	KindPresets  = "presets"
)

// Recorder holds the modelshare collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	uploadsTotal   *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	presetSyncs    *prometheus.CounterVec
	presetLoads    *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors on reg.
func New(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Blob uploads by kind and outcome",
		}, []string{"kind", "status"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes written to the blob store",
		}, []string{"kind"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Blob upload latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"kind"}),
		presetSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preset_sync_total",
			Help:      "Preset document syncs by outcome",
		}, []string{"status"}),
		presetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preset_load_total",
			Help:      "Preset loads by the tier that answered",
		}, []string{"source"}),
	}
	for _, c := range []prometheus.Collector{r.uploadsTotal, r.uploadBytes, r.uploadDuration, r.presetSyncs, r.presetLoads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveUpload records one blob write.
func (r *Recorder) ObserveUpload(kind string, bytes int, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.uploadsTotal.WithLabelValues(kind, status(err)).Inc()
	r.uploadDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err == nil {
		r.uploadBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// ObservePresetSync records one preset sync outcome.
func (r *Recorder) ObservePresetSync(err error) {
	if r == nil {
		return
	}
	r.presetSyncs.WithLabelValues(status(err)).Inc()
}

// ObservePresetLoad records which tier answered a preset load.
func (r *Recorder) ObservePresetLoad(source string) {
	if r == nil {
		return
	}
	r.presetLoads.WithLabelValues(source).Inc()
}
