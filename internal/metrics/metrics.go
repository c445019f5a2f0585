package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "runs_total",
			Help:      "Total pipeline runs by tool and result",
		},
		[]string{"tool", "result"},
	)

	runLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pdftools",
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs by tool",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	pagesComposited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "pages_composited_total",
			Help:      "Total pages that received an image layer",
		},
	)

	imagesConverted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "images_converted_total",
			Help:      "Total images drawn onto PDF pages",
		},
	)

	documentsMerged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "documents_merged_total",
			Help:      "Total source documents appended by merges",
		},
	)

	once sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(runs, runLatency, pagesComposited, imagesConverted, documentsMerged)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// ObserveRun records one finished run.
func ObserveRun(tool string, err error, dur time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	runs.WithLabelValues(tool, result).Inc()
	runLatency.WithLabelValues(tool).Observe(dur.Seconds())
}

func AddPagesComposited(n int) { pagesComposited.Add(float64(n)) }
func AddImagesConverted(n int) { imagesConverted.Add(float64(n)) }
func AddDocumentsMerged(n int) { documentsMerged.Add(float64(n)) }
