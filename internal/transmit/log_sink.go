package transmit

import (
	"context"

	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/logging"
)

// LogSink 仅记录日志的发送通道（调试/演练）
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink 创建日志通道
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logging.OrNop(logger)}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Transmit(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("transmit (dry-run)",
		zap.String("id", req.ID),
		zap.String("frame", req.Frame.String()),
		zap.Int("pulses", len(req.Pulses)),
		zap.Int32s("data", req.Pulses),
		zap.Int64("frame_us", req.Pulses.Duration()),
		zap.Int("times", req.Times()),
	)
	return nil
}
