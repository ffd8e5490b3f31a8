package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taoyao-code/iris-gateway/internal/metrics"
	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
	"github.com/taoyao-code/iris-gateway/internal/storage/pg"
	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

const testAddress = 0xF9CB

// memRecorder 内存指令日志
type memRecorder struct {
	mu   sync.Mutex
	logs []pg.CommandLog
	err  error
}

func (r *memRecorder) InsertCommandLog(_ context.Context, l *pg.CommandLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *l)
	return nil
}

func (r *memRecorder) all() []pg.CommandLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pg.CommandLog(nil), r.logs...)
}

func newTestController(t *testing.T) (*Controller, *transmit.MemorySink, *memRecorder, *metrics.AppMetrics) {
	t.Helper()
	sink := transmit.NewMemorySink()
	rec := &memRecorder{}
	m := metrics.NewAppMetrics(prometheus.NewRegistry())
	c := New(testAddress, iris.DefaultRepeat, sink, WithMetrics(m), WithRecorder(rec))
	return c, sink, rec, m
}

// pairsFor 生成解调器输入形式的平铺时长
func pairsFor(address uint16, cmd iris.Command, mode iris.Mode) []int32 {
	return iris.FlattenPairs(iris.FramePairs(iris.BuildFrame(address, cmd, mode)))
}

func TestSend_DefaultRepeat(t *testing.T) {
	c, sink, rec, m := newTestController(t)

	res, err := c.Send(context.Background(), iris.CommandPower, iris.ModePool, nil)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA2DD4F9CB00110129", res.Frame)
	assert.Equal(t, uint32(6), res.Repeat)
	assert.Equal(t, "memory", res.Sink)
	assert.NotEmpty(t, res.ID)

	reqs := sink.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 7, reqs[0].Times())
	assert.Equal(t, res.ID, reqs[0].ID)
	assert.Len(t, reqs[0].Pulses, 61)
	assert.Len(t, sink.Emitted(), 7)

	logs := rec.all()
	require.Len(t, logs, 1)
	assert.Equal(t, pg.DirectionTx, logs[0].Direction)
	assert.Equal(t, metrics.ResultOK, logs[0].Result)
	assert.Equal(t, uint8(0x11), logs[0].Command)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EncodeTotal.WithLabelValues("POWER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransmitTotal.WithLabelValues("memory", metrics.ResultOK)))
}

func TestSend_RepeatOverride(t *testing.T) {
	c, sink, _, _ := newTestController(t)
	zero := uint32(0)

	res, err := c.Send(context.Background(), iris.CommandWhite, iris.ModeSpa, &zero)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), res.Repeat)
	assert.Len(t, sink.Emitted(), 1)
}

func TestSend_SinkFailure(t *testing.T) {
	c, sink, rec, m := newTestController(t)
	sink.FailWith(errors.New("gpio busy"))

	_, err := c.Send(context.Background(), iris.CommandPower, iris.ModePool, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "gpio busy")

	logs := rec.all()
	require.Len(t, logs, 1)
	assert.Equal(t, metrics.ResultError, logs[0].Result)
	assert.Equal(t, "gpio busy", logs[0].Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransmitTotal.WithLabelValues("memory", metrics.ResultError)))
}

func TestSend_RateLimited(t *testing.T) {
	sink := transmit.NewMemorySink()
	m := metrics.NewAppMetrics(prometheus.NewRegistry())
	line := transmit.NewLine(sink, 0.001, 1)
	c := New(testAddress, 0, line, WithMetrics(m))

	_, err := c.Send(context.Background(), iris.CommandPower, iris.ModePool, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Send(ctx, iris.CommandPower, iris.ModePool, nil)
	assert.ErrorIs(t, err, transmit.ErrRateLimited)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal))
}

func TestSend_RecorderFailureIgnored(t *testing.T) {
	c, _, rec, _ := newTestController(t)
	rec.err = errors.New("db down")

	_, err := c.Send(context.Background(), iris.CommandPower, iris.ModePool, nil)
	assert.NoError(t, err)
}

func TestOnSignal_NotifiesListeners(t *testing.T) {
	c, _, rec, m := newTestController(t)

	var got []iris.Command
	c.AddListener(func(cmd iris.Command, mode iris.Mode) {
		got = append(got, cmd)
		assert.Equal(t, iris.ModeSpa, mode)
	})
	c.AddListener(nil)

	cmd, mode, ok := c.OnSignal(context.Background(), pairsFor(testAddress, iris.CommandRed, iris.ModeSpa))
	require.True(t, ok)
	assert.Equal(t, iris.CommandRed, cmd)
	assert.Equal(t, iris.ModeSpa, mode)
	assert.Equal(t, []iris.Command{iris.CommandRed}, got)

	logs := rec.all()
	require.Len(t, logs, 1)
	assert.Equal(t, pg.DirectionRx, logs[0].Direction)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeTotal.WithLabelValues(metrics.ResultOK)))
}

func TestOnSignal_Failures(t *testing.T) {
	good := pairsFor(testAddress, iris.CommandPower, iris.ModePool)

	jitter := append([]int32(nil), good...)
	jitter[2] = 200

	corrupt := iris.BuildFrame(testAddress, iris.CommandPower, iris.ModePool)
	corrupt[9] ^= 0x02
	corruptPulses := iris.FlattenPairs(iris.FramePairs(corrupt))

	tests := []struct {
		name   string
		pulses []int32
		result string
	}{
		{"抖动", jitter, metrics.ResultTiming},
		{"截断", good[:100], metrics.ResultTrunc},
		{"校验失败", corruptPulses, metrics.ResultChecksum},
		{"其他地址", pairsFor(0x1234, iris.CommandPower, iris.ModePool), ResultForeign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, m := newTestController(t)
			called := false
			c.AddListener(func(iris.Command, iris.Mode) { called = true })

			_, _, ok := c.OnSignal(context.Background(), tt.pulses)
			assert.False(t, ok)
			assert.False(t, called)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeTotal.WithLabelValues(tt.result)))
		})
	}
}

func TestOnSignal_ChecksumRecorded(t *testing.T) {
	c, _, rec, _ := newTestController(t)
	corrupt := iris.BuildFrame(testAddress, iris.CommandPower, iris.ModePool)
	corrupt[10] = 0x03

	_, _, ok := c.OnSignal(context.Background(), iris.FlattenPairs(iris.FramePairs(corrupt)))
	require.False(t, ok)

	logs := rec.all()
	require.Len(t, logs, 1)
	assert.Equal(t, metrics.ResultChecksum, logs[0].Result)
	assert.Equal(t, corrupt.Bytes(), logs[0].Frame)
}

func TestOnCapture_RealWaveform(t *testing.T) {
	c, _, _, _ := newTestController(t)
	var n int
	c.AddListener(func(cmd iris.Command, mode iris.Mode) {
		n++
		assert.Equal(t, iris.CommandPower, cmd)
		assert.Equal(t, iris.ModePool, mode)
	})

	// 发送侧波形连发两次，接收器直出形式
	seq := iris.Modulate(iris.BuildFrame(testAddress, iris.CommandPower, iris.ModePool))
	raw := append(append([]int32(nil), seq...), seq...)

	got, err := c.OnCapture(context.Background(), raw)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, n)
}

func TestOnCapture_Invalid(t *testing.T) {
	c, _, _, m := newTestController(t)

	_, err := c.OnCapture(context.Background(), []int32{105, -50})
	assert.ErrorIs(t, err, iris.ErrInvalidCapture)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeTotal.WithLabelValues(metrics.ResultTiming)))

	got, err := c.OnCapture(context.Background(), []int32{105, -104})
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestOnCapture_NoiseAndGaps(t *testing.T) {
	c, _, rec, _ := newTestController(t)

	seq := iris.Modulate(iris.BuildFrame(testAddress, iris.CommandRed, iris.ModeSpa))
	raw := []int32{37, -250000}
	raw = append(raw, seq...)
	raw = append(raw, -1000003)
	raw = append(raw, seq...)

	got, err := c.OnCapture(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, iris.CommandRed, got[1].Command)
	assert.Len(t, rec.all(), 2)
}

func TestOnCapture_WithTolerance(t *testing.T) {
	seq := iris.Modulate(iris.BuildFrame(testAddress, iris.CommandPower, iris.ModePool))
	seq[0] += 23

	c, _, _, _ := newTestController(t)
	assert.Equal(t, iris.Tolerance, c.Tolerance())
	_, err := c.OnCapture(context.Background(), seq)
	assert.ErrorIs(t, err, iris.ErrInvalidCapture)

	wide := New(testAddress, 0, transmit.NewMemorySink(), WithTolerance(25))
	assert.Equal(t, int32(25), wide.Tolerance())
	got, err := wide.OnCapture(context.Background(), seq)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// 非正值保持默认
	assert.Equal(t, iris.Tolerance, New(testAddress, 0, transmit.NewMemorySink(), WithTolerance(0)).Tolerance())
}

func TestDecodeResult(t *testing.T) {
	assert.Equal(t, metrics.ResultOK, DecodeResult(nil))
	assert.Equal(t, metrics.ResultTiming, DecodeResult(&iris.TimingError{Index: 3}))
	assert.Equal(t, metrics.ResultTrunc, DecodeResult(iris.ErrTruncated))
	assert.Equal(t, metrics.ResultChecksum, DecodeResult(&iris.ChecksumError{}))
	assert.Equal(t, metrics.ResultError, DecodeResult(errors.New("boom")))
}

func TestDescribeAndLogConfig(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := New(testAddress, 3, transmit.NewMemorySink(), WithLogger(zap.New(core)))

	d := c.Describe()
	assert.Equal(t, Description{Address: "0xF9CB", Repeat: 3, Sink: "memory", Tolerance: iris.Tolerance}, d)

	c.LogConfig()
	entries := logs.FilterMessage("iris controller").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "0xF9CB", entries[0].ContextMap()["address"])
	assert.Equal(t, "memory", entries[0].ContextMap()["sink"])
}

func TestController_ConcurrentSend(t *testing.T) {
	c, sink, _, _ := newTestController(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Send(context.Background(), iris.CommandBlue, iris.ModePoolSpa, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, sink.Requests(), 8)
}
