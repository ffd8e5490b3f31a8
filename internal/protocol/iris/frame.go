package iris

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Frame Iris 协议帧（固定 12 字节）
// 格式：AA AA AA AA(4) + 2D D4(2) + 地址高(1) + 地址低(1) + 保留00(1) + 指令(1) + 区域(1) + 校验和(1)
type Frame [FrameLen]byte

// BuildFrame 构建一帧
// 任意 16 位地址与任意字节指令/区域都能编码，枚举之外的值原样写入
func BuildFrame(address uint16, cmd Command, mode Mode) Frame {
	var f Frame
	copy(f[0:4], syncHeader[:])
	copy(f[4:6], preamble[:])
	f[6] = byte(address >> 8)
	f[7] = byte(address)
	f[8] = 0x00
	f[9] = byte(cmd)
	f[10] = byte(mode)
	f[checksumPos] = Checksum(f[checksumStart:checksumEnd])
	return f
}

// Address 目标设备地址（大端）
func (f Frame) Address() uint16 {
	return uint16(f[6])<<8 | uint16(f[7])
}

// Command 指令字节
func (f Frame) Command() Command {
	return Command(f[9])
}

// Mode 区域字节
func (f Frame) Mode() Mode {
	return Mode(f[10])
}

// Checksum 帧内携带的校验和
func (f Frame) Checksum() byte {
	return f[checksumPos]
}

// HasSync 同步头与载荷起始是否正确
func (f Frame) HasSync() bool {
	return [4]byte(f[0:4]) == syncHeader && [2]byte(f[4:6]) == preamble
}

// Bytes 返回帧字节副本
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameLen)
	copy(b, f[:])
	return b
}

// Hex 紧凑十六进制（大写）
func (f Frame) Hex() string {
	return strings.ToUpper(hex.EncodeToString(f[:]))
}

// String 以空格分隔的大写十六进制，便于与抓包对照
func (f Frame) String() string {
	var sb strings.Builder
	h := f.Hex()
	for i := 0; i < len(h); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(h[i : i+2])
	}
	return sb.String()
}

// FrameFromBytes 从 12 字节切片构造帧（长度不符返回 false）
func FrameFromBytes(b []byte) (Frame, bool) {
	var f Frame
	if len(b) != FrameLen {
		return f, false
	}
	copy(f[:], b)
	return f, true
}

// ParseAddress 解析 16 位设备地址，支持十进制与 0x 前缀十六进制
func ParseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty iris address")
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid iris address %q: %w", s, err)
	}
	return uint16(v), nil
}

// FormatAddress 0xF9CB 形式
func FormatAddress(address uint16) string {
	return fmt.Sprintf("0x%04X", address)
}

// packBits 将 MSB 优先的位序列打包为帧（bits 长度必须为 FrameBits）
func packBits(bits []byte) Frame {
	var f Frame
	for i, bit := range bits {
		f[i/8] = f[i/8]<<1 | bit
	}
	return f
}
