// Package bootstrap 网关统一启动流程
package bootstrap

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/api"
	"github.com/taoyao-code/iris-gateway/internal/app"
	cfgpkg "github.com/taoyao-code/iris-gateway/internal/config"
	"github.com/taoyao-code/iris-gateway/internal/controller"
	"github.com/taoyao-code/iris-gateway/internal/metrics"
	"github.com/taoyao-code/iris-gateway/internal/receive"
	pgstorage "github.com/taoyao-code/iris-gateway/internal/storage/pg"
	redisstorage "github.com/taoyao-code/iris-gateway/internal/storage/redis"
)

// Run 按依赖顺序启动各组件，阻塞直到 ctx 结束后优雅关闭
func Run(ctx context.Context, cfg *cfgpkg.Config, log *zap.Logger) error {
	log = log.With(zap.String("server_id", app.GenerateServerID()))
	log.Info("starting iris gateway", zap.String("env", cfg.App.Env))

	// ========== 阶段1: 基础组件 ==========
	reg, appm := app.NewMetrics()

	// ========== 阶段2: 外部存储（均为可选）==========
	redisClient, err := app.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Error("redis initialization failed", zap.Error(err))
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	dbpool, err := app.ConnectDBAndMigrate(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	var (
		recorder controller.Recorder
		history  api.HistorySource
	)
	if dbpool != nil {
		defer dbpool.Close()
		repo := &pgstorage.Repository{Pool: dbpool}
		recorder, history = repo, repo
	}

	// ========== 阶段3: 发送线路与控制器 ==========
	line, txQueue, err := app.NewTransmitLine(cfg.Iris, redisClient, log)
	if err != nil {
		return err
	}
	address, err := cfg.Iris.DeviceAddress()
	if err != nil {
		return err
	}
	opts := []controller.Option{
		controller.WithMetrics(appm),
		controller.WithLogger(log),
		controller.WithTolerance(cfg.Iris.Tolerance),
	}
	if recorder != nil {
		opts = append(opts, controller.WithRecorder(recorder))
	}
	ctrl := controller.New(address, cfg.Iris.Repeat, line, opts...)
	ctrl.LogConfig()

	// ========== 阶段4: 接收队列消费者 ==========
	// 在 Redis/DB 的 defer Close 之前停止并等待
	workers := newBackground(ctx)
	defer workers.Stop()
	var queues []*redisstorage.Queue
	if txQueue != nil {
		queues = append(queues, txQueue)
	}
	if cfg.Receiver.Enabled {
		rxQueue := redisstorage.NewQueue(redisClient, cfg.Receiver.QueueKey)
		queues = append(queues, rxQueue)
		worker := receive.New(rxQueue, ctrl, cfg.Receiver.PollTimeout)
		worker.Metrics = appm
		worker.Logger = log
		workers.Go(worker.Run)
	}

	// ========== 阶段5: HTTP 服务 ==========
	agg := app.NewHealthAggregator(line, dbpool, redisClient, queues...)
	httpSrv := app.NewHTTPServer(cfg, metrics.Handler(reg), agg, ctrl, history, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start()
	}()
	log.Info("http server started", zap.String("addr", cfg.HTTP.Addr))

	// ========== 等待退出 ==========
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err = <-errCh:
		if err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if e := httpSrv.Shutdown(shutdownCtx); e != nil {
		log.Warn("http shutdown error", zap.Error(e))
	}
	log.Info("iris gateway stopped")
	return err
}

// background 后台协程组：Stop 取消共享 ctx 并等待全部退出
type background struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newBackground(parent context.Context) *background {
	ctx, cancel := context.WithCancel(parent)
	return &background{ctx: ctx, cancel: cancel}
}

// Go 以组内 ctx 启动 fn
func (b *background) Go(fn func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn(b.ctx)
	}()
}

// Stop 可重复调用
func (b *background) Stop() {
	b.cancel()
	b.wg.Wait()
}
