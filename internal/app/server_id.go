package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// GenerateServerID 生成网关实例ID，写入日志便于区分多实例
// 优先使用环境变量 SERVER_ID，否则生成 iris-gateway-{hostname}-{uuid前8位}
func GenerateServerID() string {
	if serverID := os.Getenv("SERVER_ID"); serverID != "" {
		return serverID
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("iris-gateway-%s-%s", hostname, uuid.NewString()[:8])
}
