package iris

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedTiming 脉冲对不符合 bit0/bit1 任一时序模板
	ErrUnexpectedTiming = errors.New("iris: unexpected timing")
	// ErrTruncated 输入耗尽前不足 96 位
	ErrTruncated = errors.New("iris: truncated frame")
	// ErrChecksumMismatch 帧已完整解出但校验和错误
	ErrChecksumMismatch = errors.New("iris: checksum mismatch")
	// ErrInvalidCapture 原始抓包中的时长无法换算为整数个符号
	ErrInvalidCapture = errors.New("iris: invalid capture")
	// ErrCaptureTooLong 原始抓包时长个数超过 MaxCaptureDurations
	ErrCaptureTooLong = fmt.Errorf("%w: more than %d durations", ErrInvalidCapture, MaxCaptureDurations)
)

// TimingError 携带出错脉冲对的序号（即位序号）
type TimingError struct {
	Index int
	Pair  Pair
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("iris: unexpected timing at pair %d (mark=%d space=%d)", e.Index, e.Pair.Mark, e.Pair.Space)
}

func (e *TimingError) Unwrap() error { return ErrUnexpectedTiming }

// ChecksumError 校验失败时仍保留已解出的字节用于诊断
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("iris: checksum mismatch in frame %s (want 0x%02X)",
		e.Frame, Checksum(e.Frame[checksumStart:checksumEnd]))
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// CaptureError 原始抓包第 Index 个时长无效
type CaptureError struct {
	Index    int
	Duration int32
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("iris: invalid capture duration %d at index %d", e.Duration, e.Index)
}

func (e *CaptureError) Unwrap() error { return ErrInvalidCapture }
