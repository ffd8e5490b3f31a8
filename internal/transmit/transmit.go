// Package transmit 提供 Iris 波形的发送通道（sink）
// 编解码层只产出 PulseSequence，物理发送、重复次数与帧间隔由这里的实现负责
package transmit

import (
	"context"
	"time"

	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

// Request 一次发送请求：同一波形连续发送 Repeat+1 次
type Request struct {
	ID        string
	Frame     iris.Frame
	Pulses    iris.PulseSequence
	Repeat    uint32
	CreatedAt time.Time
}

// Times 实际发送次数
func (r Request) Times() int {
	return int(r.Repeat) + 1
}

// Transmitter 发送通道
type Transmitter interface {
	Transmit(ctx context.Context, req Request) error
	Name() string
}
