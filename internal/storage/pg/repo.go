package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// 指令方向
const (
	DirectionTx = "tx" // 网关发出
	DirectionRx = "rx" // 接收到遥控器信号
)

// CommandLog 指令日志
type CommandLog struct {
	ID        uuid.UUID `json:"id"`
	Direction string    `json:"direction"`
	Address   uint16    `json:"address"`
	Command   uint8     `json:"command"`
	Mode      uint8     `json:"mode"`
	Frame     []byte    `json:"frame"`
	Repeat    uint32    `json:"repeat"`
	Result    string    `json:"result"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository 提供最小持久化能力
type Repository struct {
	Pool *pgxpool.Pool
}

// InsertCommandLog 插入指令日志，ID/CreatedAt 为空时自动生成
func (r *Repository) InsertCommandLog(ctx context.Context, l *CommandLog) error {
	if r == nil || r.Pool == nil {
		return errors.New("command log repository not configured")
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	const q = `INSERT INTO iris_command_log (id, direction, address, command, mode, frame, repeat, result, error, created_at)
               VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),$10)`
	_, err := r.Pool.Exec(ctx, q,
		l.ID.String(), l.Direction, int32(l.Address), int16(l.Command), int16(l.Mode),
		l.Frame, int64(l.Repeat), l.Result, l.Error, l.CreatedAt)
	return err
}

// 查询条数
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ClampLimit <=0 取默认值，超过上限取上限
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// ListRecent 按时间倒序返回最近的指令日志
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]CommandLog, error) {
	if r == nil || r.Pool == nil {
		return nil, errors.New("command log repository not configured")
	}
	limit = ClampLimit(limit)
	const q = `SELECT id::text, direction, address, command, mode, frame, repeat, result, COALESCE(error,''), created_at
               FROM iris_command_log ORDER BY created_at DESC LIMIT $1`
	rows, err := r.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommandLog
	for rows.Next() {
		var (
			l       CommandLog
			id      string
			address int32
			cmd     int16
			mode    int16
			repeat  int64
		)
		if err := rows.Scan(&id, &l.Direction, &address, &cmd, &mode, &l.Frame, &repeat, &l.Result, &l.Error, &l.CreatedAt); err != nil {
			return nil, err
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		l.Address = uint16(address)
		l.Command = uint8(cmd)
		l.Mode = uint8(mode)
		l.Repeat = uint32(repeat)
		out = append(out, l)
	}
	return out, rows.Err()
}
