package server

import (
	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes used as the "outcome" label.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
	outcomeLimited  = "limited"
	outcomeCanceled = "canceled"
)

// metrics live in a private registry so several servers (and tests) can
// coexist in one process.
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	duration  prometheus.Histogram
	results   prometheus.Histogram
	cacheHits prometheus.Counter
}

func newMetrics(engine *search.Engine) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "wordscape_dictionary_words",
		Help: "Number of words in the loaded dictionary.",
	}, func() float64 {
		return float64(engine.Stats()["totalWords"])
	})

	return &metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wordscape_search_requests_total",
			Help: "Search requests by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wordscape_search_duration_seconds",
			Help:    "Time spent answering successful searches.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		results: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wordscape_search_results",
			Help:    "Number of words returned per search.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "wordscape_search_cache_hits_total",
			Help: "Searches answered from the result cache.",
		}),
	}
}
