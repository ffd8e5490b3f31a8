package health

import (
	"context"
	"time"

	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

// TransmitChecker 发送线路检查：限速拒绝占比过高视为降级
type TransmitChecker struct {
	line *transmit.Line
	// MaxRejectRatio 拒绝占比阈值
	MaxRejectRatio float64
}

// NewTransmitChecker 创建发送线路检查器
func NewTransmitChecker(line *transmit.Line) *TransmitChecker {
	return &TransmitChecker{line: line, MaxRejectRatio: 0.5}
}

// Name 返回检查器名称
func (c *TransmitChecker) Name() string {
	return "transmit"
}

// Check 执行健康检查
func (c *TransmitChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	stats := c.line.Stats()

	details := map[string]interface{}{
		"sink":           c.line.Name(),
		"rate_per_sec":   stats.RatePerSecond,
		"burst":          stats.Burst,
		"allowed_total":  stats.AllowedTotal,
		"rejected_total": stats.RejectedTotal,
	}

	total := stats.AllowedTotal + stats.RejectedTotal
	if total > 0 {
		ratio := float64(stats.RejectedTotal) / float64(total)
		details["reject_ratio"] = ratio
		if ratio > c.MaxRejectRatio {
			return CheckResult{
				Status:  StatusDegraded,
				Message: "transmit line saturated",
				Details: details,
				Latency: time.Since(start),
			}
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: details,
		Latency: time.Since(start),
	}
}
