// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "z_novel_reader"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	// 阅读进度指标
	ProgressSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reading",
			Name:      "progress_saves_total",
			Help:      "Total number of reading progress saves",
		},
		[]string{"status"}, // status: created/updated/failed
	)

	CacheFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reading",
			Name:      "cache_fallback_total",
			Help:      "Total number of reads served from the local cache after a remote miss or failure",
		},
		[]string{"op"},
	)

	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reading",
			Name:      "cache_write_failures_total",
			Help:      "Total number of swallowed local cache write failures",
		},
	)

	EnrichDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reading",
			Name:      "enrich_dropped_total",
			Help:      "Total number of composite entries dropped during enrichment",
		},
		[]string{"reason"}, // reason: novel_missing/volume_missing/chapter_missing/fetch_error
	)

	// 收藏指标
	FavoriteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "favorite",
			Name:      "toggles_total",
			Help:      "Total number of favorite toggles",
		},
		[]string{"action"}, // action: added/removed
	)

	// 文档存储指标
	DocStoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "docstore",
			Name:      "op_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op"},
	)
)
