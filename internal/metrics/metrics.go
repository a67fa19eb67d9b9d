package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PhotosProcessed    *prometheus.CounterVec
	ConversionFailures *prometheus.CounterVec
	ExtractSeconds     prometheus.Histogram
	ActiveWorkers      prometheus.Gauge
	RecordsSplit       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PhotosProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geotag_photos_processed_total",
			Help: "Total number of processed photos by extraction status.",
		}, []string{"status"}),
		ConversionFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geotag_conversion_failures_total",
			Help: "Total number of GPS coordinates that could not be converted, by failure kind.",
		}, []string{"kind"}),
		ExtractSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geotag_extract_duration_seconds",
			Help:    "Duration of reading and converting GPS metadata of a single photo.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geotag_active_workers",
			Help: "Current number of active workers processing photos.",
		}),
		RecordsSplit: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fastasplit_records_total",
			Help: "Total number of FASTA records handled by the splitter, by status.",
		}, []string{"status"}),
	}
}

// WriteTextfile dumps every metric gathered by g into path using the text exposition
// format, for collection by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
