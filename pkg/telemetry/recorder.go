package telemetry

import (
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports report generation and batch metrics.
type Recorder struct {
	reports    *prometheus.CounterVec
	duration   prometheus.Histogram
	batchItems *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_reports_generated_total",
				Help: "Reports that reached a terminal status, by status",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pulse_report_generation_seconds",
				Help:    "Wall-clock time of report generation",
				Buckets: prometheus.DefBuckets,
			},
		),
		batchItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_batch_items_total",
				Help: "Batch items processed, by outcome",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{r.reports, r.duration, r.batchItems} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveReport(status domain.ReportStatus, elapsed time.Duration) {
	r.reports.WithLabelValues(string(status)).Inc()
	r.duration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveBatchItem(outcome string) {
	r.batchItems.WithLabelValues(outcome).Inc()
}
