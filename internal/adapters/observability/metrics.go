package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CMSRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "cms_requests_total", Help: "Outbound CMS requests."},
		[]string{"endpoint", "status"},
	)
	CMSLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal", Name: "cms_request_duration_seconds",
			Help:    "Outbound CMS request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error|corrupt
	)
	SyncedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "synced_records_total", Help: "CMS records written by the ingestor."},
		[]string{"collection", "outcome"}, // outcome: ok|miss|error
	)
	SortFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "sort_fallbacks_total", Help: "Requested sort keys that were not recognized."},
		[]string{"table"},
	)
)

// Serve starts a side metrics listener on addr; an empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	reg := InitRegistry()
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

var (
	regOnce         sync.Once
	defaultRegistry *prometheus.Registry
)

// InitRegistry returns the process registry, creating it on first use so
// both the side listener and the API router can expose it.
func InitRegistry() *prometheus.Registry {
	regOnce.Do(func() {
		defaultRegistry = prometheus.NewRegistry()
		defaultRegistry.MustRegister(HTTPRequests, HTTPLatency, CMSRequests, CMSLatency, CacheEvents, SyncedRecords, SortFallbacks)
	})
	return defaultRegistry
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCMS(endpoint string, status int, dur time.Duration) {
	CMSRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	CMSLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveSync(collection, outcome string, n int) {
	SyncedRecords.WithLabelValues(collection, outcome).Add(float64(n))
}

func ObserveSortFallback(table string) {
	SortFallbacks.WithLabelValues(table).Inc()
}
