package transmit

import (
	"context"
	"sync"

	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

// MemorySink 在内存中记录发送内容（测试与预览）
type MemorySink struct {
	mu       sync.Mutex
	requests []Request
	emitted  []iris.PulseSequence
	err      error
}

// NewMemorySink 创建内存通道
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Name() string { return "memory" }

// FailWith 后续发送均返回 err（nil 恢复）
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySink) Transmit(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.requests = append(s.requests, req)
	for i := 0; i < req.Times(); i++ {
		s.emitted = append(s.emitted, req.Pulses)
	}
	return nil
}

// Requests 已接收的请求副本
func (s *MemorySink) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Emitted 按发送次数展开后的波形
func (s *MemorySink) Emitted() []iris.PulseSequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]iris.PulseSequence(nil), s.emitted...)
}
