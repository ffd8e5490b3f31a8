// Package iris 实现 Iris 泳池/水疗灯控遥控协议的帧编解码：
// 帧构建、校验和、脉冲调制（游程累加）与容差解调。纯计算，无 I/O。
package iris

// Iris 帧与波形常量（协议参数，不随输入变化）
const (
	// FrameLen 帧长度（字节）
	FrameLen = 12
	// FrameBits 帧总位数
	FrameBits = FrameLen * 8

	// MarkDuration bit=1 的有效电平时长（微秒）
	MarkDuration int32 = 105
	// SpaceDuration bit=0 的空闲电平时长（微秒）
	SpaceDuration int32 = 104
	// Tolerance 解调时单个时长允许的偏差（微秒）
	Tolerance int32 = 15
	// MaxCaptureDurations 单次原始抓包允许的最大时长个数
	MaxCaptureDurations = 4096

	// DefaultRepeat 默认额外重发次数（设备侧观测值）
	DefaultRepeat uint32 = 6

	// 校验和覆盖范围 frame[checksumStart:checksumEnd]
	checksumStart = 4
	checksumEnd   = 11
	checksumPos   = 11
)

// 固定字段
var (
	syncHeader = [4]byte{0xAA, 0xAA, 0xAA, 0xAA} // 同步头
	preamble   = [2]byte{0x2D, 0xD4}             // 载荷起始
)
