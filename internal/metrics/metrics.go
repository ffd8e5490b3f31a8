package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// 解码结果标签
const (
	ResultOK       = "ok"
	ResultTiming   = "timing"
	ResultTrunc    = "truncated"
	ResultChecksum = "checksum"
	ResultError    = "error"
)

// AppMetrics 自定义业务指标
type AppMetrics struct {
	EncodeTotal      *prometheus.CounterVec // labels: cmd
	TransmitTotal    *prometheus.CounterVec // labels: sink, result=ok|error
	DecodeTotal      *prometheus.CounterVec // labels: result=ok|timing|truncated|checksum
	PulseCount       prometheus.Histogram   // 每帧波形段数
	RateLimitedTotal prometheus.Counter     // 因限速被拒绝的发送
	ReceiveQueueLen  prometheus.Gauge       // 最近一次观测的抓包队列长度
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		EncodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iris_encode_total",
			Help: "Iris frames built and modulated, by command.",
		}, []string{"cmd"}),
		TransmitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iris_transmit_total",
			Help: "Pulse sequences handed to a transmit sink.",
		}, []string{"sink", "result"}),
		DecodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iris_decode_total",
			Help: "Iris demodulation attempts by result.",
		}, []string{"result"}),
		PulseCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "iris_pulse_count",
			Help:    "Run-length accumulated pulse entries per frame.",
			Buckets: prometheus.LinearBuckets(8, 8, 12),
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iris_rate_limited_total",
			Help: "Transmissions rejected by the line rate limiter.",
		}),
		ReceiveQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iris_receive_queue_length",
			Help: "Pending captured pulse streams in the receive queue.",
		}),
	}
	reg.MustRegister(m.EncodeTotal, m.TransmitTotal, m.DecodeTotal, m.PulseCount, m.RateLimitedTotal, m.ReceiveQueueLen)
	return m
}

// ObserveEncode 记录一次编码
func (m *AppMetrics) ObserveEncode(cmd string, pulses int) {
	if m == nil {
		return
	}
	m.EncodeTotal.WithLabelValues(cmd).Inc()
	m.PulseCount.Observe(float64(pulses))
}

// ObserveTransmit 记录一次发送结果
func (m *AppMetrics) ObserveTransmit(sink string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.TransmitTotal.WithLabelValues(sink, result).Inc()
}

// ObserveDecode 记录一次解码结果
func (m *AppMetrics) ObserveDecode(result string) {
	if m == nil {
		return
	}
	m.DecodeTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimited 记录一次限速拒绝
func (m *AppMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
