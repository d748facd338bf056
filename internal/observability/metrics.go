// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels shared by the counters below.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	// UploadsTotal counts stored and rejected uploads by target directory.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_uploads_total",
		Help: "Total number of file uploads by directory and result",
	}, []string{"dir", "result"})

	// NotificationsTotal counts outgoing email notifications.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_notifications_total",
		Help: "Total number of notifications by kind and result",
	}, []string{"kind", "result"})

	// ContentWritesTotal counts content mutations by resource and operation.
	ContentWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_content_writes_total",
		Help: "Total number of content writes by resource and operation",
	}, []string{"resource", "operation"})

	// RateLimitRejections counts requests refused by a limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"limiter"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
