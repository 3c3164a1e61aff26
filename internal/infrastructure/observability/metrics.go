// Package observability expone las métricas Prometheus del servicio.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Revenue-api/internal/application/ports"
)

// Metrics agrupa los colectores del servicio sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cacheOps         *prometheus.CounterVec
	breakerState     prometheus.Gauge
	recomputeSeconds prometheus.Histogram
	recomputeMembers prometheus.Counter
	benchmarkRetries prometheus.Counter
}

var _ ports.RecomputeRecorder = (*Metrics)(nil)

// NewMetrics registra los colectores bajo el namespace dado (p. ej. "revenue").
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por ruta, método y código.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_cache_operations_total",
			Help:      "Operaciones del caché de métricas por resultado (hit, miss, error).",
		}, []string{"op", "result"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "metrics_cache_breaker_state",
			Help:      "Estado del circuit breaker del caché: 0 cerrado, 1 semiabierto, 2 abierto.",
		}),
		recomputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "member_analytics_recompute_seconds",
			Help:      "Duración del recálculo de analítica por miembro de una empresa.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		recomputeMembers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "member_analytics_recomputed_total",
			Help:      "Miembros recalculados.",
		}),
		benchmarkRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "benchmark_update_retries_total",
			Help:      "Reintentos por conflicto de concurrencia al actualizar benchmarks.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.cacheOps, m.breakerState,
		m.recomputeSeconds, m.recomputeMembers, m.benchmarkRetries,
	)
	return m
}

// Registry registry con todos los colectores (tests y handlers propios).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone el registry en formato de texto Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest registra una petición HTTP ya respondida.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ── Caché ──

// CacheHit cuenta un acierto de lectura.
func (m *Metrics) CacheHit() { m.cacheOps.WithLabelValues("get", "hit").Inc() }

// CacheMiss cuenta un fallo de lectura (clave ausente).
func (m *Metrics) CacheMiss() { m.cacheOps.WithLabelValues("get", "miss").Inc() }

// CacheError cuenta un error de la operación op (get, set, invalidate).
func (m *Metrics) CacheError(op string) { m.cacheOps.WithLabelValues(op, "error").Inc() }

// SetBreakerState publica el estado del circuit breaker.
func (m *Metrics) SetBreakerState(state int) { m.breakerState.Set(float64(state)) }

// ── Analítica ──

// ObserveRecompute implementa ports.RecomputeRecorder.
func (m *Metrics) ObserveRecompute(d time.Duration, members int) {
	m.recomputeSeconds.Observe(d.Seconds())
	m.recomputeMembers.Add(float64(members))
}

// ObserveBenchmarkRetry cuenta un reintento de BenchmarkRepo.Update.
func (m *Metrics) ObserveBenchmarkRetry() { m.benchmarkRetries.Inc() }
