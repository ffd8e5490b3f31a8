package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/api"
	"github.com/taoyao-code/iris-gateway/internal/api/middleware"
	cfgpkg "github.com/taoyao-code/iris-gateway/internal/config"
	"github.com/taoyao-code/iris-gateway/internal/controller"
	"github.com/taoyao-code/iris-gateway/internal/health"
	"github.com/taoyao-code/iris-gateway/internal/httpserver"
)

// NewHTTPServer 组装 HTTP 服务：健康检查、指标、Iris API
// history 为 nil 时 /history 返回 503
func NewHTTPServer(cfg *cfgpkg.Config, metricsHandler http.Handler, agg *health.Aggregator,
	ctrl *controller.Controller, history api.HistorySource, log *zap.Logger) *httpserver.Server {
	if !cfg.Metrics.Enable {
		metricsHandler = nil
	}
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	authCfg := middleware.AuthConfig{Enabled: cfg.API.Auth.Enabled, APIKeys: cfg.API.Auth.APIKeys}
	handler := api.NewIrisHandler(ctrl, history, log)

	return httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler,
		func() bool { return agg.Ready(context.Background()) },
		func(r *gin.Engine) { health.RegisterHTTPRoutes(r, agg) },
		func(r *gin.Engine) { api.RegisterIrisRoutes(r, handler, authCfg, log) },
	)
}
