// Package controller 把 Iris 编解码与发送通道、指令日志、指标串起来
// 发送：指令 → 帧 → 波形 → sink；接收：抓包 → 解调 → 监听器
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/logging"
	"github.com/taoyao-code/iris-gateway/internal/metrics"
	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
	"github.com/taoyao-code/iris-gateway/internal/storage/pg"
	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

// Listener 收到有效指令时回调
type Listener func(cmd iris.Command, mode iris.Mode)

// Recorder 指令日志持久化（pg.Repository 实现）
type Recorder interface {
	InsertCommandLog(ctx context.Context, l *pg.CommandLog) error
}

// Controller 单个遥控地址的发送/接收入口，可并发使用
type Controller struct {
	address   uint16
	repeat    uint32
	tolerance int32
	sink      transmit.Transmitter

	metrics  *metrics.AppMetrics
	recorder Recorder
	logger   *zap.Logger

	mu        sync.RWMutex
	listeners []Listener
}

// Option 可选依赖
type Option func(*Controller)

// WithMetrics 注入业务指标
func WithMetrics(m *metrics.AppMetrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithRecorder 注入指令日志
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger 注入日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTolerance 原始抓包切分时长的容差（微秒），<=0 时保持默认
func WithTolerance(us int32) Option {
	return func(c *Controller) {
		if us > 0 {
			c.tolerance = us
		}
	}
}

// New 创建控制器，repeat 为默认额外重发次数
func New(address uint16, repeat uint32, sink transmit.Transmitter, opts ...Option) *Controller {
	c := &Controller{
		address:   address,
		repeat:    repeat,
		tolerance: iris.Tolerance,
		sink:      sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger).With(zap.String("address", iris.FormatAddress(address)))
	return c
}

// Address 设备地址
func (c *Controller) Address() uint16 { return c.address }

// DefaultRepeat 默认额外重发次数
func (c *Controller) DefaultRepeat() uint32 { return c.repeat }

// Tolerance 原始抓包容差（微秒）
func (c *Controller) Tolerance() int32 { return c.tolerance }

// AddListener 注册监听器
func (c *Controller) AddListener(l Listener) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Encode 构建帧与波形，不发送
func (c *Controller) Encode(cmd iris.Command, mode iris.Mode) (iris.Frame, iris.PulseSequence) {
	frame := iris.BuildFrame(c.address, cmd, mode)
	seq := iris.Modulate(frame)
	c.metrics.ObserveEncode(cmd.String(), len(seq))
	return frame, seq
}

// SendResult 一次发送的回执
type SendResult struct {
	ID     string             `json:"id"`
	Frame  string             `json:"frame"`
	Pulses iris.PulseSequence `json:"pulses"`
	Repeat uint32             `json:"repeat"`
	Sink   string             `json:"sink"`
}

// Send 编码并交给发送通道，repeat 为 nil 时使用默认值
func (c *Controller) Send(ctx context.Context, cmd iris.Command, mode iris.Mode, repeat *uint32) (*SendResult, error) {
	frame, seq := c.Encode(cmd, mode)
	req := transmit.Request{
		ID:        uuid.NewString(),
		Frame:     frame,
		Pulses:    seq,
		Repeat:    c.repeat,
		CreatedAt: time.Now(),
	}
	if repeat != nil {
		req.Repeat = *repeat
	}

	c.logger.Info("send_command",
		zap.String("id", req.ID),
		zap.Stringer("cmd", cmd),
		zap.Stringer("mode", mode),
		zap.String("frame", frame.Hex()),
		zap.Int("pulses", len(seq)),
		zap.Uint32("repeat", req.Repeat),
	)

	err := c.sink.Transmit(ctx, req)
	c.metrics.ObserveTransmit(c.sink.Name(), err)
	if errors.Is(err, transmit.ErrRateLimited) {
		c.metrics.ObserveRateLimited()
	}

	entry := &pg.CommandLog{
		Direction: pg.DirectionTx,
		Address:   c.address,
		Command:   uint8(cmd),
		Mode:      uint8(mode),
		Frame:     frame.Bytes(),
		Repeat:    req.Repeat,
		Result:    metrics.ResultOK,
		CreatedAt: req.CreatedAt,
	}
	if err != nil {
		entry.Result = metrics.ResultError
		entry.Error = err.Error()
	}
	c.record(ctx, entry)

	if err != nil {
		c.logger.Warn("transmit failed", zap.String("id", req.ID), zap.Error(err))
		return nil, fmt.Errorf("transmit %s/%s: %w", cmd, mode, err)
	}
	return &SendResult{
		ID:     req.ID,
		Frame:  frame.Hex(),
		Pulses: seq,
		Repeat: req.Repeat,
		Sink:   c.sink.Name(),
	}, nil
}

// OnSignal 处理一段接收到的平铺 mark/space 时长
// 解码失败或地址不符返回 false；成功时通知所有监听器
func (c *Controller) OnSignal(ctx context.Context, pulses []int32) (iris.Command, iris.Mode, bool) {
	d, err := iris.Demodulate(pulses)
	if err != nil {
		c.rejected(ctx, err)
		return 0, 0, false
	}
	if !c.accept(ctx, *d) {
		return 0, 0, false
	}
	return d.Command, d.Mode, true
}

// OnCapture 处理游程累加形式的原始抓包，返回其中所有被接受的帧
func (c *Controller) OnCapture(ctx context.Context, raw []int32) ([]iris.Decoded, error) {
	frames, err := iris.DecodeCapture(raw, c.tolerance)
	if err != nil {
		c.rejected(ctx, err)
		return nil, err
	}
	if len(frames) == 0 {
		c.metrics.ObserveDecode(metrics.ResultTrunc)
		return nil, nil
	}
	out := make([]iris.Decoded, 0, len(frames))
	for _, f := range frames {
		d := iris.DecodeFrame(f)
		if c.accept(ctx, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// accept 校验地址、记录并分发
func (c *Controller) accept(ctx context.Context, d iris.Decoded) bool {
	if d.Address != c.address {
		c.metrics.ObserveDecode(ResultForeign)
		c.logger.Debug("ignore frame for other address",
			zap.String("frame_address", iris.FormatAddress(d.Address)),
			zap.String("frame", d.Frame.Hex()))
		return false
	}
	c.metrics.ObserveDecode(metrics.ResultOK)
	c.logger.Info("received command",
		zap.Stringer("cmd", d.Command),
		zap.Stringer("mode", d.Mode),
		zap.String("frame", d.Frame.Hex()))
	c.record(ctx, &pg.CommandLog{
		Direction: pg.DirectionRx,
		Address:   d.Address,
		Command:   uint8(d.Command),
		Mode:      uint8(d.Mode),
		Frame:     d.Frame.Bytes(),
		Result:    metrics.ResultOK,
	})

	c.mu.RLock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()
	for _, l := range listeners {
		l(d.Command, d.Mode)
	}
	return true
}

func (c *Controller) rejected(ctx context.Context, err error) {
	result := DecodeResult(err)
	c.metrics.ObserveDecode(result)
	c.logger.Debug("decode failed", zap.String("result", result), zap.Error(err))

	// 校验失败的帧已完整解出，值得留档
	var ce *iris.ChecksumError
	if errors.As(err, &ce) {
		c.record(ctx, &pg.CommandLog{
			Direction: pg.DirectionRx,
			Address:   ce.Frame.Address(),
			Command:   uint8(ce.Frame.Command()),
			Mode:      uint8(ce.Frame.Mode()),
			Frame:     ce.Frame.Bytes(),
			Result:    result,
			Error:     err.Error(),
		})
	}
}

func (c *Controller) record(ctx context.Context, entry *pg.CommandLog) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.InsertCommandLog(ctx, entry); err != nil {
		c.logger.Warn("insert command log failed", zap.String("direction", entry.Direction), zap.Error(err))
	}
}

// ResultForeign 帧有效但地址不属于本控制器
const ResultForeign = "foreign"

// DecodeResult 把解码错误映射为指标标签
func DecodeResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, iris.ErrUnexpectedTiming), errors.Is(err, iris.ErrInvalidCapture):
		return metrics.ResultTiming
	case errors.Is(err, iris.ErrTruncated):
		return metrics.ResultTrunc
	case errors.Is(err, iris.ErrChecksumMismatch):
		return metrics.ResultChecksum
	default:
		return metrics.ResultError
	}
}

// Describe 启动时输出的配置摘要
func (c *Controller) Describe() Description {
	return Description{
		Address:   iris.FormatAddress(c.address),
		Repeat:    c.repeat,
		Sink:      c.sink.Name(),
		Tolerance: c.tolerance,
	}
}

// Description 控制器配置摘要
type Description struct {
	Address   string `json:"address"`
	Repeat    uint32 `json:"repeat"`
	Sink      string `json:"sink"`
	Tolerance int32  `json:"tolerance_us"`
}

// LogConfig 以日志形式输出配置摘要
func (c *Controller) LogConfig() {
	d := c.Describe()
	c.logger.Info("iris controller",
		zap.String("sink", d.Sink),
		zap.Uint32("repeat", d.Repeat),
		zap.Int("frame_bytes", iris.FrameLen),
		zap.Int32("tolerance_us", d.Tolerance))
}
