// Package metrics Prometheus指标
//
// 命名约定：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值的维度（命令类型、结果、路由模板），不使用SKU、店员ID。
//
// 使用：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.RecordCommand("consume_stock", metrics.ResultSuccess, time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultRejected  = "rejected"  // 熔断拒绝
	ResultEmpty     = "empty"     // 没有可撤销的命令
	ResultDiscarded = "discarded" // 历史条目无法撤销，已丢弃
)

var (
	once sync.Once

	// HTTP

	// HTTPRequestsTotal 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration 标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPRequestsInProgress 正在处理的请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 库存命令

	// CommandExecutionsTotal 标签：kind、result
	CommandExecutionsTotal *prometheus.CounterVec
	// CommandDuration 命令执行耗时（含事务与历史写入），标签：kind
	CommandDuration *prometheus.HistogramVec
	// CommandUndosTotal 标签：kind（empty时为空串）、result
	CommandUndosTotal *prometheus.CounterVec
	// LowStockAlertsTotal 低库存告警次数，标签：grain_type
	LowStockAlertsTotal *prometheus.CounterVec

	// Saga

	// SagaExecutionsTotal 标签：result
	SagaExecutionsTotal *prometheus.CounterVec

	// 熔断器

	// CircuitBreakerState 0=CLOSED 1=OPEN 2=HALF_OPEN，标签：name
	CircuitBreakerState *prometheus.GaugeVec
	// CircuitBreakerRequests 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息

	// MessagesPublishedTotal 标签：transport（rabbitmq/kafka/log）、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
	// MessagesConsumedTotal 标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec
	// MessageProcessingDuration 消费端单条消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP请求耗时（秒）",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "正在处理的HTTP请求数",
	})

	CommandExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_command_executions_total",
		Help: "库存命令执行总数",
	}, []string{"kind", "result"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_command_duration_seconds",
		Help:    "库存命令执行耗时（秒）",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"})

	CommandUndosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_command_undos_total",
		Help: "撤销请求总数",
	}, []string{"kind", "result"})

	LowStockAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_low_stock_alerts_total",
		Help: "低库存告警次数",
	}, []string{"grain_type"})

	SagaExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_executions_total",
		Help: "Saga执行总数",
	}, []string{"result"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN）",
	}, []string{"name"})

	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_requests_total",
		Help: "经过熔断器的请求总数",
	}, []string{"name", "result"})

	MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_published_total",
		Help: "消息发布总数",
	}, []string{"transport", "routing_key", "result"})

	MessagesConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_consumed_total",
		Help: "消息消费总数",
	}, []string{"queue", "result"})

	MessageProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "message_processing_duration_seconds",
		Help:    "消息处理耗时（秒）",
		Buckets: prometheus.DefBuckets,
	})
}

// ResultOf err为nil时返回success，否则failure
func ResultOf(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, path, status string, d time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordCommand 记录一次命令执行
func RecordCommand(kind, result string, d time.Duration) {
	InitMetrics()
	CommandExecutionsTotal.WithLabelValues(kind, result).Inc()
	CommandDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordUndo 记录一次撤销
func RecordUndo(kind, result string) {
	InitMetrics()
	CommandUndosTotal.WithLabelValues(kind, result).Inc()
}

// RecordLowStockAlert 记录低库存告警
func RecordLowStockAlert(grainType string) {
	InitMetrics()
	LowStockAlertsTotal.WithLabelValues(grainType).Inc()
}

// RecordSaga 记录Saga结果
func RecordSaga(result string) {
	InitMetrics()
	SagaExecutionsTotal.WithLabelValues(result).Inc()
}

// RecordPublish 记录消息发布
func RecordPublish(transport, routingKey, result string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(transport, routingKey, result).Inc()
}

// RecordConsume 记录消息消费
func RecordConsume(queue, result string, d time.Duration) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(d.Seconds())
}

// RecordBreakerRequest 记录经过熔断器的请求
func RecordBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetBreakerState 设置熔断器状态
func SetBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
