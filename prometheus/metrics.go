package prometheus

import (
	"time"

	"commerce-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Order transaction metrics
	OrderOperationsCounter *prometheus.CounterVec

	// Payment transaction metrics
	PaymentOperationsCounter *prometheus.CounterVec

	// Stock ledger metrics
	StockAdjustmentsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Tenant context metrics
	TenantContextMissingCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrderOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	PaymentOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_operations_total",
			Help: "Total number of payment operations by outcome",
		},
		[]string{"outcome"},
	)

	StockAdjustmentsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_adjustments_total",
			Help: "Total number of stock adjustments by direction",
		},
		[]string{"direction"},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	TenantContextMissingCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_context_missing_total",
			Help: "Total number of requests without tenant context",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation, outcome string) {
	if OrderOperationsCounter == nil {
		return
	}
	OrderOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordPaymentOperation increments the counter for payment operations
func RecordPaymentOperation(outcome string) {
	if PaymentOperationsCounter == nil {
		return
	}
	PaymentOperationsCounter.WithLabelValues(outcome).Inc()
}

// RecordStockAdjustment increments the counter for stock adjustments
func RecordStockAdjustment(delta int) {
	if StockAdjustmentsCounter == nil {
		return
	}
	direction := "increase"
	if delta < 0 {
		direction = "decrease"
	}
	StockAdjustmentsCounter.WithLabelValues(direction).Inc()
}

// RecordTenantContextMissing increments the counter for requests without tenant context
func RecordTenantContextMissing() {
	if TenantContextMissingCounter == nil {
		return
	}
	TenantContextMissingCounter.Inc()
}
