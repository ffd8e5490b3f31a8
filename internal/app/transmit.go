package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/iris-gateway/internal/config"
	redisstorage "github.com/taoyao-code/iris-gateway/internal/storage/redis"
	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

// NewTransmitLine 按配置选择发送通道并套上线路限速
// 返回的 queue 仅在 redis 通道下非空
func NewTransmitLine(cfg cfgpkg.IrisConfig, redisClient *redisstorage.Client, log *zap.Logger) (*transmit.Line, *redisstorage.Queue, error) {
	var (
		sink  transmit.Transmitter
		queue *redisstorage.Queue
	)
	switch cfg.Sink {
	case cfgpkg.SinkLog:
		sink = transmit.NewLogSink(log)
	case cfgpkg.SinkRedis:
		if redisClient == nil {
			return nil, nil, errors.New("redis sink requires redis client")
		}
		queue = redisstorage.NewQueue(redisClient, cfg.TxQueueKey)
		sink = transmit.NewRedisSink(queue, log)
	default:
		return nil, nil, fmt.Errorf("unknown iris sink %q", cfg.Sink)
	}
	log.Info("transmit line ready",
		zap.String("sink", sink.Name()),
		zap.Float64("rate_per_sec", cfg.RatePerSec),
		zap.Int("burst", cfg.Burst))
	return transmit.NewLine(sink, cfg.RatePerSec, cfg.Burst), queue, nil
}
