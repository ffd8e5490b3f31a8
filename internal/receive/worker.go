// Package receive 消费接收桥接进程写入 Redis 的抓包并交给控制器解码
package receive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/logging"
	"github.com/taoyao-code/iris-gateway/internal/metrics"
	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

// Message 队列中的一条抓包
// Format 为空或 "pairs" 时 Pulses 按 mark/space 对解调；"raw" 表示游程累加的原始波形
type Message struct {
	Format string  `json:"format,omitempty"`
	Pulses []int32 `json:"pulses"`
}

// Source 抓包来源（redis.Queue 实现）
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
	Len(ctx context.Context) (int64, error)
}

// Handler 解码入口（controller.Controller 实现）
type Handler interface {
	OnSignal(ctx context.Context, pulses []int32) (iris.Command, iris.Mode, bool)
	OnCapture(ctx context.Context, raw []int32) ([]iris.Decoded, error)
}

// Worker 抓包队列消费者
type Worker struct {
	Source      Source
	Handler     Handler
	PollTimeout time.Duration
	// ErrorBackoff 队列读取失败后的等待
	ErrorBackoff time.Duration
	Metrics      *metrics.AppMetrics
	Logger       *zap.Logger
}

// New 创建消费者
func New(src Source, h Handler, pollTimeout time.Duration) *Worker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &Worker{
		Source:       src,
		Handler:      h,
		PollTimeout:  pollTimeout,
		ErrorBackoff: time.Second,
	}
}

// Run 循环消费直到 ctx 结束
func (w *Worker) Run(ctx context.Context) {
	logger := logging.OrNop(w.Logger)
	logger.Info("receive worker started", zap.Duration("poll_timeout", w.PollTimeout))
	defer logger.Info("receive worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}
		data, err := w.Source.Pop(ctx, w.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("pop capture failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.ErrorBackoff):
			}
			continue
		}
		if data == nil {
			// 超时空轮询，顺便刷新队列长度
			w.observeLen(ctx)
			continue
		}
		if _, err := w.Handle(ctx, data); err != nil {
			logger.Debug("capture dropped", zap.Error(err))
		}
	}
}

// ErrMalformed 队列消息无法解析
var ErrMalformed = errors.New("receive: malformed message")

// Handle 处理一条消息，返回被接受的指令数
func (w *Worker) Handle(ctx context.Context, data []byte) (int, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(msg.Pulses) == 0 {
		return 0, fmt.Errorf("%w: no pulses", ErrMalformed)
	}
	switch msg.Format {
	case "", "pairs":
		if _, _, ok := w.Handler.OnSignal(ctx, msg.Pulses); !ok {
			return 0, errors.New("receive: signal rejected")
		}
		return 1, nil
	case "raw":
		decoded, err := w.Handler.OnCapture(ctx, msg.Pulses)
		if err != nil {
			return 0, err
		}
		return len(decoded), nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrMalformed, msg.Format)
	}
}

func (w *Worker) observeLen(ctx context.Context) {
	if w.Metrics == nil {
		return
	}
	n, err := w.Source.Len(ctx)
	if err != nil {
		return
	}
	w.Metrics.ReceiveQueueLen.Set(float64(n))
}
