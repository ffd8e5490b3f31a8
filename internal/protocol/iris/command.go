package iris

import (
	"fmt"
	"strings"
)

// Command 遥控指令码（线上占 1 字节）
type Command uint8

// 已知指令。IRIS_POWER 取值来自设备实测抓包，其余按遥控器按键顺序连续编码
const (
	CommandPower      Command = 0x11 // 电源开关
	CommandBlue       Command = 0x12
	CommandMagenta    Command = 0x13
	CommandRed        Command = 0x14
	CommandLime       Command = 0x15
	CommandGreen      Command = 0x16
	CommandAqua       Command = 0x17
	CommandWhite      Command = 0x18
	CommandMode1      Command = 0x19 // 预设灯效 1
	CommandMode2      Command = 0x1A
	CommandMode3      Command = 0x1B
	CommandMode4      Command = 0x1C
	CommandBrightness Command = 0x1D // 亮度调节
)

// Mode 作用区域
type Mode uint8

const (
	ModePool    Mode = 0x01 // 泳池
	ModeSpa     Mode = 0x02 // 水疗池
	ModePoolSpa Mode = 0x03 // 泳池+水疗池
)

var commandNames = map[Command]string{
	CommandPower:      "POWER",
	CommandBlue:       "BLUE",
	CommandMagenta:    "MAGENTA",
	CommandRed:        "RED",
	CommandLime:       "LIME",
	CommandGreen:      "GREEN",
	CommandAqua:       "AQUA",
	CommandWhite:      "WHITE",
	CommandMode1:      "MODE1",
	CommandMode2:      "MODE2",
	CommandMode3:      "MODE3",
	CommandMode4:      "MODE4",
	CommandBrightness: "BRIGHTNESS",
}

var modeNames = map[Mode]string{
	ModePool:    "POOL",
	ModeSpa:     "SPA",
	ModePoolSpa: "POOLSPA",
}

// Commands 按编码顺序返回全部已知指令
func Commands() []Command {
	return []Command{
		CommandPower, CommandBlue, CommandMagenta, CommandRed, CommandLime, CommandGreen, CommandAqua,
		CommandWhite, CommandMode1, CommandMode2, CommandMode3, CommandMode4, CommandBrightness,
	}
}

// Modes 返回全部已知区域
func Modes() []Mode {
	return []Mode{ModePool, ModeSpa, ModePoolSpa}
}

// Valid 是否为已知指令
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", uint8(c))
}

// Valid 是否为已知区域
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(0x%02X)", uint8(m))
}

// ParseCommand 按名称解析指令（不区分大小写，允许 IRIS_ 前缀）
func ParseCommand(s string) (Command, error) {
	name := normalizeName(s)
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown iris command %q", s)
}

// ParseMode 按名称解析区域（不区分大小写，允许 IRIS_ 前缀）
func ParseMode(s string) (Mode, error) {
	name := normalizeName(s)
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown iris mode %q", s)
}

func normalizeName(s string) string {
	name := strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(name, "IRIS_")
}
