package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 合成结果标签值。
const (
	ResultSuccess    = "success"
	ResultFailed     = "failed"
	ResultSuperseded = "superseded"
)

var (
	compositionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentconsole",
			Subsystem: "personalize",
			Name:      "compositions_total",
			Help:      "预览合成总数（按结果分类）。",
		},
		[]string{"result"},
	)

	compositionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "agentconsole",
			Subsystem: "personalize",
			Name:      "composition_duration_seconds",
			Help:      "单次预览合成耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// ObserveComposition 记录一次合成的结果与耗时。
func ObserveComposition(result string, elapsed time.Duration) {
	compositionTotal.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		compositionDuration.Observe(elapsed.Seconds())
	}
}
