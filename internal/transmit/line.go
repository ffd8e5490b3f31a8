package transmit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// ErrRateLimited 在上下文结束前未获得发送令牌
var ErrRateLimited = errors.New("transmit: rate limited")

// Line 物理线路守卫：同一时刻只允许一个发送在途，并按令牌桶限速
type Line struct {
	next       Transmitter
	limiter    *rate.Limiter
	ratePerSec float64
	mu         sync.Mutex

	allowedCount  atomic.Int64
	rejectedCount atomic.Int64
}

// NewLine 包装发送通道
// ratePerSec: 每秒允许的发送次数（<=0 表示不限速）
// burst: 突发容量（<=0 时取 1）
func NewLine(next Transmitter, ratePerSec float64, burst int) *Line {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &Line{
		next:       next,
		limiter:    rate.NewLimiter(limit, burst),
		ratePerSec: ratePerSec,
	}
}

func (l *Line) Name() string { return l.next.Name() }

// Transmit 等待令牌后串行发送
func (l *Line) Transmit(ctx context.Context, req Request) error {
	if err := l.limiter.Wait(ctx); err != nil {
		l.rejectedCount.Add(1)
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	l.allowedCount.Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Transmit(ctx, req)
}

// Stats 获取统计信息
func (l *Line) Stats() LineStats {
	return LineStats{
		RatePerSecond: l.ratePerSec,
		Burst:         l.limiter.Burst(),
		AllowedTotal:  l.allowedCount.Load(),
		RejectedTotal: l.rejectedCount.Load(),
	}
}

// LineStats 线路统计信息
type LineStats struct {
	RatePerSecond float64 `json:"rate_per_second"` // 0 表示不限速
	Burst         int     `json:"burst"`
	AllowedTotal  int64   `json:"allowed_total"`
	RejectedTotal int64   `json:"rejected_total"`
}
