package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-global counters and histograms for the
// compressor and query paths.
type Metrics struct {
	RecordsParsed    prometheus.Counter
	RecordsDropped   prometheus.Counter
	CompressDuration prometheus.Histogram
	QueryTotal       prometheus.Counter
	QueryLatency     prometheus.Histogram
}

var (
	instance     *Metrics
	instanceOnce sync.Once
)

// NewMetrics returns the process-wide Metrics instance, registering its
// collectors against the default registry on first call. Every Store and
// every CompressStream run in a process shares this one instance — promauto
// panics on a second registration of the same collector name, so unlike a
// plain constructor this cannot allocate a fresh set of collectors per
// caller.
func NewMetrics() *Metrics {
	instanceOnce.Do(func() {
		instance = &Metrics{
			RecordsParsed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "vectroplus_records_parsed_total",
				Help: "Total input records successfully parsed by the compressor.",
			}),
			RecordsDropped: promauto.NewCounter(prometheus.CounterOpts{
				Name: "vectroplus_records_dropped_total",
				Help: "Total input lines dropped for failing to parse as JSON or CSV.",
			}),
			CompressDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name: "vectroplus_compress_duration_seconds",
				Help: "Wall-clock duration of compress_stream runs.",
			}),
			QueryTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "vectroplus_query_total",
				Help: "Total top_k queries served by an index.",
			}),
			QueryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
				Name: "vectroplus_query_latency_seconds",
				Help: "Latency of top_k queries.",
			}),
		}
	})
	return instance
}
