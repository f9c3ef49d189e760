package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImageSyncMetrics records the outcome of media reconciliation runs.
type ImageSyncMetrics struct {
	images   *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewImageSyncMetrics(reg prometheus.Registerer) *ImageSyncMetrics {
	if reg == nil {
		return &ImageSyncMetrics{}
	}
	images := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_sync_images_total",
		Help:      "Images handled by the sync job by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_sync_duration_seconds",
		Help:      "Duration of image sync runs.",
		Buckets:   prometheus.DefBuckets,
	})
	reg.MustRegister(images, duration)
	return &ImageSyncMetrics{images: images, duration: duration}
}

// ObserveRun records the counters of a finished run.
func (m *ImageSyncMetrics) ObserveRun(added, skipped, marked int, elapsed time.Duration) {
	if m == nil || m.images == nil {
		return
	}
	m.images.WithLabelValues("added").Add(float64(added))
	m.images.WithLabelValues("skipped").Add(float64(skipped))
	m.images.WithLabelValues("marked").Add(float64(marked))
	m.duration.Observe(elapsed.Seconds())
}
