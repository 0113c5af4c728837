// Package metrics SkillBarter 服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchRequests 按搜索模式统计匹配请求
	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbarter_match_requests_total",
		Help: "Total number of match requests by filter type",
	}, []string{"filter"})

	// MatchDuration 匹配请求耗时，包含候选集查询
	MatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillbarter_match_duration_seconds",
		Help:    "Duration of match requests in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms 到约 10s
	}, []string{"filter"})

	MatchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skillbarter_match_result_count",
		Help:    "Number of candidates returned per match request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// EmbeddingRequests 按调用方和结果统计 embedding 调用
	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbarter_embedding_requests_total",
		Help: "Total number of embedding calls by caller and outcome",
	}, []string{"caller", "outcome"})

	CreditsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbarter_credits_moved_total",
		Help: "Credits spent or earned",
	}, []string{"direction"})

	ChatConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skillbarter_chat_connections",
		Help: "Number of open chat websocket connections",
	})

	BackfillRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbarter_embedding_backfill_total",
		Help: "Profiles processed by the embedding backfill task by outcome",
	}, []string{"outcome"})
)
