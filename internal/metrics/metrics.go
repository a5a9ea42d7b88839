// Package metrics exposes Prometheus counters for the stores and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what repositories and middleware report to.
type Recorder interface {
	RecordStoreOperation(store, op string)
	RecordStorageError(store, op string)
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	storeOps      *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "koryob_store_operations_total",
			Help: "Durable storage reads and writes per store.",
		}, []string{"store", "op"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "koryob_storage_errors_total",
			Help: "Failed or degraded durable storage operations per store.",
		}, []string{"store", "op"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "koryob_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.storeOps, c.storageErrors, c.httpStatus)

	return c
}

func (c *Collector) RecordStoreOperation(store, op string) {
	c.storeOps.WithLabelValues(store, op).Inc()
}

func (c *Collector) RecordStorageError(store, op string) {
	c.storageErrors.WithLabelValues(store, op).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordStoreOperation(string, string) {}
func (Nop) RecordStorageError(string, string)   {}
func (Nop) RecordHTTPStatus(int)                {}
