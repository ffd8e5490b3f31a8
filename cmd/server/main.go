// @title Iris Gateway API
// @version 1.0
// @description Iris 泳池/水疗池遥控网关：构建帧、发送指令、解码抓包
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/iris-gateway/internal/config"
	"github.com/taoyao-code/iris-gateway/internal/logging"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 信号处理，优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, cfg, zap.L()); err != nil {
		zap.L().Error("iris gateway exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
