package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 业务指标
type Metrics struct {
	ImportsTotal       *prometheus.CounterVec
	ImportLines        *prometheus.CounterVec
	RecalculationTime  prometheus.Histogram
	IntegrityErrors    prometheus.Counter
	AssignmentsCreated prometheus.Counter
	AssignmentsDeleted prometheus.Counter
	HTTPDuration       *prometheus.HistogramVec
}

// NewMetrics 在给定 Registerer 上注册指标；reg 为 nil 时使用默认注册表
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ImportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_imports_total",
			Help:      "Chat imports by outcome (ok, partial, failed).",
		}, []string{"outcome"}),
		ImportLines: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_import_lines_total",
			Help:      "Imported draft lines by result kind.",
		}, []string{"kind"}),
		RecalculationTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fairness_recalculation_seconds",
			Help:      "Time spent in a full fairness recalculation.",
			Buckets:   prometheus.DefBuckets,
		}),
		IntegrityErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fairness_integrity_errors_total",
			Help:      "Assignments excluded from scoring due to dangling references.",
		}),
		AssignmentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_created_total",
			Help:      "Assignments created through the API or chat import.",
		}),
		AssignmentsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_deleted_total",
			Help:      "Assignments deleted by administrators.",
		}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// NewNop 返回注册在独立注册表上的指标，供测试与 CLI 使用
func NewNop() *Metrics {
	return NewMetrics("duty", prometheus.NewRegistry())
}
