package transmit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/logging"
	redisstore "github.com/taoyao-code/iris-gateway/internal/storage/redis"
)

// Job 写入 Redis 发送队列的任务，由 GPIO 桥接进程消费
type Job struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Command   string    `json:"command"`
	Mode      string    `json:"mode"`
	Frame     string    `json:"frame"`
	Pulses    []int32   `json:"pulses"`     // 带符号：正为 mark，负为 space
	Raw       []uint32  `json:"raw"`        // 无符号时长，电平从 FirstMark 起交替
	FirstMark bool      `json:"first_mark"` // 首段是否为有效电平
	Repeat    uint32    `json:"repeat"`     // 额外重发次数
	CreatedAt time.Time `json:"created_at"`
}

// NewJob 由发送请求生成队列任务
func NewJob(req Request) Job {
	return Job{
		ID:        req.ID,
		Address:   fmt.Sprintf("0x%04X", req.Frame.Address()),
		Command:   req.Frame.Command().String(),
		Mode:      req.Frame.Mode().String(),
		Frame:     req.Frame.Hex(),
		Pulses:    req.Pulses,
		Raw:       req.Pulses.Raw(),
		FirstMark: req.Pulses.FirstMark(),
		Repeat:    req.Repeat,
		CreatedAt: req.CreatedAt,
	}
}

// RedisSink 将波形写入 Redis 队列
type RedisSink struct {
	queue  *redisstore.Queue
	logger *zap.Logger
}

// NewRedisSink 创建 Redis 发送通道
func NewRedisSink(queue *redisstore.Queue, logger *zap.Logger) *RedisSink {
	return &RedisSink{queue: queue, logger: logging.OrNop(logger)}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Transmit(ctx context.Context, req Request) error {
	job := NewJob(req)
	if err := s.queue.Push(ctx, job); err != nil {
		return fmt.Errorf("enqueue transmit job: %w", err)
	}
	s.logger.Debug("transmit job enqueued",
		zap.String("id", job.ID),
		zap.String("queue", s.queue.Key()),
		zap.String("frame", job.Frame),
		zap.Uint32("repeat", job.Repeat),
	)
	return nil
}
