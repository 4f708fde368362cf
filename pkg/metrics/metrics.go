package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 入队计数
	QueuePushCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_push_count",
			Help: "Total number of jobs pushed onto a queue",
		},
		[]string{"queue", "status"}, // status: success, failed
	)

	// 出队失败计数（连接层错误）
	QueuePopErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_pop_error_count",
			Help: "Total number of failed blocking pops",
		},
		[]string{"queue"},
	)

	// 队列长度
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Number of jobs waiting in a queue",
		},
		[]string{"queue"},
	)

	// 任务处理计数
	JobProcessedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_processed_count",
			Help: "Total number of jobs processed by the worker",
		},
		[]string{"queue", "outcome"}, // outcome: success, validation, dispatch, parse, panic, ...
	)

	// 任务处理延迟（毫秒）
	JobProcessLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_process_latency_ms",
			Help:    "Job processing latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"queue"},
	)

	// 邮件服务商调用延迟（毫秒）
	EmailSendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_send_latency_ms",
			Help:    "Email provider call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10), // 50ms to ~50s
		},
		[]string{"provider", "status"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// IncrementQueuePush 记录入队结果
func IncrementQueuePush(queue string, ok bool) {
	status := "success"
	if !ok {
		status = "failed"
	}
	QueuePushCount.WithLabelValues(queue, status).Inc()
}

// IncrementQueuePopError 记录出队失败
func IncrementQueuePopError(queue string) {
	QueuePopErrorCount.WithLabelValues(queue).Inc()
}

// SetQueueDepth 记录队列长度
func SetQueueDepth(queue string, depth int64) {
	QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

// RecordJobProcessed 记录任务结果与耗时
func RecordJobProcessed(queue, outcome string, duration time.Duration) {
	JobProcessedCount.WithLabelValues(queue, outcome).Inc()
	JobProcessLatency.WithLabelValues(queue).Observe(float64(duration.Milliseconds()))
}

// RecordEmailSendLatency 记录邮件服务商调用延迟
func RecordEmailSendLatency(provider, status string, duration time.Duration) {
	EmailSendLatency.WithLabelValues(provider, status).Observe(float64(duration.Milliseconds()))
}

// IncrementSlowQuery 记录慢查询
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
