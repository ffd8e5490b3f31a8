// Package capture 读取以 YAML 保存的遥控器抓包样本
package capture

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

// 波形格式
const (
	// FormatPairs 平铺的 mark/space 对，直接送解调器
	FormatPairs = "pairs"
	// FormatRaw 游程累加后的原始时长（发送形式或接收器直出）
	FormatRaw = "raw"
)

// Capture 一条抓包样本，Expect 为期望解出的指令（可选）
type Capture struct {
	Name   string  `yaml:"name"`
	Format string  `yaml:"format"`
	Pulses []int32 `yaml:"pulses"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect 期望结果
type Expect struct {
	Address string `yaml:"address"`
	Command string `yaml:"command"`
	Mode    string `yaml:"mode"`
	// Frames raw 格式下期望找到的有效帧数
	Frames int `yaml:"frames,omitempty"`
}

// File 样本文件
type File struct {
	Captures []Capture `yaml:"captures"`
}

// Result 单条样本的解码结果
type Result struct {
	Name    string
	Decoded []iris.Decoded
	Err     error
}

// Load 读取样本文件
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析样本 YAML 并校验每条记录
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse captures: %w", err)
	}
	for i := range f.Captures {
		c := &f.Captures[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("capture-%d", i)
		}
		if c.Format == "" {
			c.Format = FormatRaw
		}
		c.Format = strings.ToLower(c.Format)
		if c.Format != FormatRaw && c.Format != FormatPairs {
			return nil, fmt.Errorf("capture %q: unknown format %q", c.Name, c.Format)
		}
		if len(c.Pulses) == 0 {
			return nil, fmt.Errorf("capture %q: no pulses", c.Name)
		}
	}
	return &f, nil
}

// Find 按名称查找样本
func (f *File) Find(name string) (Capture, bool) {
	for _, c := range f.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return Capture{}, false
}

// Decode 按样本格式解码
// pairs 格式得到至多一个结果；raw 格式返回其中所有校验通过的帧
func (c Capture) Decode() ([]iris.Decoded, error) {
	switch c.Format {
	case FormatPairs:
		d, err := iris.Demodulate(c.Pulses)
		if err != nil {
			return nil, err
		}
		return []iris.Decoded{*d}, nil
	default:
		frames, err := iris.DecodeCapture(c.Pulses, iris.Tolerance)
		if err != nil {
			return nil, err
		}
		out := make([]iris.Decoded, 0, len(frames))
		for _, fr := range frames {
			out = append(out, iris.DecodeFrame(fr))
		}
		return out, nil
	}
}

// Check 解码并与 Expect 比较，无 Expect 时仅要求解码成功
func (c Capture) Check() error {
	got, err := c.Decode()
	if err != nil {
		return err
	}
	if c.Expect == nil {
		return nil
	}
	if c.Expect.Frames > 0 && len(got) != c.Expect.Frames {
		return fmt.Errorf("capture %q: got %d frames, want %d", c.Name, len(got), c.Expect.Frames)
	}
	if len(got) == 0 {
		return errors.New("capture " + c.Name + ": no valid frame")
	}
	addr, cmd, mode, err := c.Expect.resolve()
	if err != nil {
		return fmt.Errorf("capture %q: %w", c.Name, err)
	}
	for _, d := range got {
		if d.Address != addr || d.Command != cmd || d.Mode != mode {
			return fmt.Errorf("capture %q: got %04X/%s/%s, want %04X/%s/%s",
				c.Name, d.Address, d.Command, d.Mode, addr, cmd, mode)
		}
	}
	return nil
}

// Replay 依次解码文件中的所有样本
func (f *File) Replay() []Result {
	out := make([]Result, 0, len(f.Captures))
	for _, c := range f.Captures {
		decoded, err := c.Decode()
		if err == nil {
			err = c.Check()
		}
		out = append(out, Result{Name: c.Name, Decoded: decoded, Err: err})
	}
	return out
}

func (e *Expect) resolve() (uint16, iris.Command, iris.Mode, error) {
	addr, err := iris.ParseAddress(e.Address)
	if err != nil {
		return 0, 0, 0, err
	}
	cmd, err := iris.ParseCommand(e.Command)
	if err != nil {
		return 0, 0, 0, err
	}
	mode, err := iris.ParseMode(e.Mode)
	if err != nil {
		return 0, 0, 0, err
	}
	return addr, cmd, mode, nil
}
