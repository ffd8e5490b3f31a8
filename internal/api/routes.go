package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/iris-gateway/internal/api/middleware"
	"github.com/taoyao-code/iris-gateway/internal/logging"
)

// RegisterIrisRoutes 注册 /api/v1/iris 路由
func RegisterIrisRoutes(r gin.IRouter, h *IrisHandler, authCfg middleware.AuthConfig, logger *zap.Logger) {
	if r == nil || h == nil {
		return
	}
	logger = logging.OrNop(logger)

	g := r.Group("/api/v1/iris")
	g.Use(middleware.RequestTracing())
	if authCfg.Enabled {
		g.Use(middleware.APIKeyAuth(authCfg, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(authCfg.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}

	g.GET("/catalog", h.Catalog)
	g.POST("/frames", h.BuildFrame)
	g.POST("/commands", h.SendCommand)
	g.POST("/decode", h.Decode)
	g.GET("/history", h.History)

	logger.Info("iris routes registered", zap.Int("endpoints", 5))
}
