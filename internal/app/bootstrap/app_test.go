package bootstrap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/iris-gateway/internal/config"
)

func TestRun_StopsOnCancel(t *testing.T) {
	cfg, err := cfgpkg.Load("")
	require.NoError(t, err)
	cfg.HTTP.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_InvalidSink(t *testing.T) {
	cfg, err := cfgpkg.Load("")
	require.NoError(t, err)
	cfg.Iris.Sink = "gpio"

	err = Run(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown iris sink")
}

func TestBackground_StopWaitsForWorkers(t *testing.T) {
	b := newBackground(context.Background())

	var finished atomic.Int32
	for i := 0; i < 3; i++ {
		b.Go(func(ctx context.Context) {
			<-ctx.Done()
			// 模拟退出前仍在进行的一次阻塞读
			time.Sleep(20 * time.Millisecond)
			finished.Add(1)
		})
	}

	b.Stop()
	assert.Equal(t, int32(3), finished.Load())

	// 重复调用不阻塞
	b.Stop()
}

func TestBackground_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	b := newBackground(parent)

	done := make(chan struct{})
	b.Go(func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	})
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not observe parent cancel")
	}
	b.Stop()
}
