// Package metrics 提供 Prometheus helper，包含本服务的 HTTP、缓存与业务指标
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数（按方法、路径、状态码）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 缓存命中/未命中计数
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// 已提交审核计数（按处置结果）
	ReviewsSubmittedTotal *prometheus.CounterVec
	// 当前队列深度
	ReviewQueueDepth prometheus.Gauge
}

// New 创建指标实例并完成注册
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "cache_hits_total",
			Help:      "Cache hits by memo key",
		}, []string{"key"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "cache_misses_total",
			Help:      "Cache misses by memo key",
		}, []string{"key"}),
		ReviewsSubmittedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "reviews_submitted_total",
			Help:      "Submitted merchant reviews by status",
		}, []string{"status"}),
		ReviewQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "merchantrisk",
			Subsystem: serviceName,
			Name:      "review_queue_depth",
			Help:      "Merchants currently awaiting review",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ReviewsSubmittedTotal,
		m.ReviewQueueDepth,
	)

	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler 返回 /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
