package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/iris-gateway/internal/api/middleware"
)

// StandardResponse 标准响应格式
type StandardResponse struct {
	Code      int         `json:"code"`           // 0=成功, >0=HTTP 状态码
	Message   string      `json:"message"`        // 消息
	Data      interface{} `json:"data,omitempty"` // 业务数据
	RequestID string      `json:"request_id"`     // 请求追踪ID
	Timestamp int64       `json:"timestamp"`      // 时间戳
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Code:      0,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(middleware.ContextRequestID),
		Timestamp: time.Now().Unix(),
	})
}

func respondError(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, StandardResponse{
		Code:      status,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(middleware.ContextRequestID),
		Timestamp: time.Now().Unix(),
	})
}
