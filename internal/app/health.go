package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/iris-gateway/internal/health"
	redisstorage "github.com/taoyao-code/iris-gateway/internal/storage/redis"
	"github.com/taoyao-code/iris-gateway/internal/transmit"
)

// NewHealthAggregator 按已启用的组件创建健康检查聚合器
func NewHealthAggregator(line *transmit.Line, dbpool *pgxpool.Pool, redisClient *redisstorage.Client, queues ...*redisstorage.Queue) *health.Aggregator {
	agg := health.NewAggregator(health.NewTransmitChecker(line))
	if dbpool != nil {
		agg.AddChecker(health.NewDatabaseChecker(dbpool))
	}
	if redisClient != nil {
		agg.AddChecker(health.NewRedisChecker(redisClient, queues...))
	}
	return agg
}
