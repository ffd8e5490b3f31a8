package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue 基于 List 的 FIFO 队列（LPUSH 入队，BRPOP 出队），元素为 JSON
// 发送侧：网关写入待发送波形，GPIO 桥接进程消费；
// 接收侧：接收桥接进程写入抓包，网关消费
type Queue struct {
	rdb redis.Cmdable
	key string
}

// NewQueue 创建队列
func NewQueue(rdb redis.Cmdable, key string) *Queue {
	return &Queue{rdb: rdb, key: key}
}

// Key 队列键名
func (q *Queue) Key() string {
	return q.key
}

// Push 序列化并入队
func (q *Queue) Push(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal queue item: %w", err)
	}
	return q.rdb.LPush(ctx, q.key, data).Err()
}

// Pop 阻塞出队，超时返回 (nil, nil)
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// 返回值为 [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(res))
	}
	return []byte(res[1]), nil
}

// Len 队列长度
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
