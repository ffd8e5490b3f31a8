package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseChecker 指令日志库健康检查器
type DatabaseChecker struct {
	pool *pgxpool.Pool
}

// NewDatabaseChecker 创建数据库健康检查器
func NewDatabaseChecker(pool *pgxpool.Pool) *DatabaseChecker {
	return &DatabaseChecker{pool: pool}
}

// Name 返回检查器名称
func (c *DatabaseChecker) Name() string {
	return "database"
}

// Check Ping、迁移版本、连接池利用率
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if err := c.pool.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
			Latency: time.Since(start),
		}
	}

	// 迁移未执行时指令日志无法写入，降级但不影响收发
	var version int64
	status, message := StatusHealthy, "ok"
	err := c.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil || version == 0 {
		status, message = StatusDegraded, "migrations not applied"
	}

	stats := c.pool.Stat()
	utilization := 0.0
	if stats.MaxConns() > 0 {
		utilization = float64(stats.AcquiredConns()) / float64(stats.MaxConns())
	}
	switch {
	case utilization >= 1.0:
		status, message = StatusDegraded, "connection pool exhausted"
	case utilization > 0.9 && status == StatusHealthy:
		status, message = StatusDegraded, "connection pool near limit"
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]interface{}{
			"schema_version": version,
			"total_conns":    stats.TotalConns(),
			"acquired_conns": stats.AcquiredConns(),
			"max_conns":      stats.MaxConns(),
			"utilization":    fmt.Sprintf("%.1f%%", utilization*100),
		},
		Latency: time.Since(start),
	}
}
