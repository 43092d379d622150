package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge

	BookingDecisions *prometheus.CounterVec
	LockTimeouts     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
		DBOpenConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_open_connections",
				Help:        "Number of established database connections",
				ConstLabels: constLabels,
			},
		),
		DBInUseConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "db_in_use_connections",
				Help:        "Number of database connections currently in use",
				ConstLabels: constLabels,
			},
		),
		BookingDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "booking_decisions_total",
				Help:        "Booking engine decisions by operation and outcome",
				ConstLabels: constLabels,
			},
			[]string{"operation", "outcome"},
		),
		LockTimeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "resource_lock_timeouts_total",
				Help:        "Resource lock acquisitions that ran out of time",
				ConstLabels: constLabels,
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.BookingDecisions,
		m.LockTimeouts,
	)

	return m
}

// RecordHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) RecordHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordDBQuery фиксирует длительность запроса к БД
func (m *Metrics) RecordDBQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordDecision фиксирует решение движка бронирования (accepted, rejected, busy, ...)
func (m *Metrics) RecordDecision(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingDecisions.WithLabelValues(operation, outcome).Inc()
}

// RecordLockTimeout фиксирует истечение ожидания блокировки ресурса
// Ошибки сериализации сюда не попадают, они видны как busy в BookingDecisions
func (m *Metrics) RecordLockTimeout(operation string) {
	if m == nil {
		return
	}
	m.LockTimeouts.WithLabelValues(operation).Inc()
}

// Исходы решений движка
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)
