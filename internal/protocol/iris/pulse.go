package iris

// PulseSequence 发送用波形：正数为有效电平（mark）时长，负数为空闲电平（space）时长，单位微秒。
// 相邻元素符号必然不同（同号脉冲已合并）
type PulseSequence []int32

// Pair 一个 mark/space 时长对（接收侧）
type Pair struct {
	Mark  int32 `json:"mark"`
	Space int32 `json:"space"`
}

// Modulate 将帧调制为波形
// 每字节 MSB 优先；bit=1 → +MarkDuration，bit=0 → -SpaceDuration；
// 连续同号脉冲累加为一段，最后的累加值非零时作为最后一段输出。
// 不做重复发送，也不插入帧间隔
func Modulate(frame Frame) PulseSequence {
	seq := make(PulseSequence, 0, FrameBits)
	var acc int32
	for _, b := range frame {
		for bit := 7; bit >= 0; bit-- {
			pulse := -SpaceDuration
			if b&(1<<uint(bit)) != 0 {
				pulse = MarkDuration
			}
			switch {
			case acc == 0:
				acc = pulse
			case (acc > 0) == (pulse > 0):
				acc += pulse
			default:
				seq = append(seq, acc)
				acc = pulse
			}
		}
	}
	if acc != 0 {
		seq = append(seq, acc)
	}
	return seq
}

// Raw 转为无符号时长列表（发送端 transmit_raw 形式），首段电平由 FirstMark 给出
func (s PulseSequence) Raw() []uint32 {
	raw := make([]uint32, len(s))
	for i, p := range s {
		raw[i] = uint32(abs32(p))
	}
	return raw
}

// FirstMark 首段是否为有效电平
func (s PulseSequence) FirstMark() bool {
	return len(s) > 0 && s[0] > 0
}

// Duration 单帧总时长（微秒）
func (s PulseSequence) Duration() int64 {
	var total int64
	for _, p := range s {
		total += int64(abs32(p))
	}
	return total
}

// Alternates 检查游程累加不变量：无零值、无相邻同号
func (s PulseSequence) Alternates() bool {
	for i, p := range s {
		if p == 0 {
			return false
		}
		if i > 0 && (s[i-1] > 0) == (p > 0) {
			return false
		}
	}
	return true
}

// Pairs 将已累加的发送波形重新展开为逐位的 mark/space 对（与解调模板一致）
func (s PulseSequence) Pairs() ([]Pair, error) {
	levels, err := SliceLevels(s, Tolerance)
	if err != nil {
		return nil, err
	}
	return LevelsToPairs(levels), nil
}

// FramePairs 直接由帧得到逐位的模板时长对
func FramePairs(frame Frame) []Pair {
	pairs := make([]Pair, 0, FrameBits)
	for _, b := range frame {
		for bit := 7; bit >= 0; bit-- {
			pairs = append(pairs, templatePair(b&(1<<uint(bit)) != 0))
		}
	}
	return pairs
}

// LevelsToPairs 逐位电平 → 模板时长对
// bit0 → (Mark, Space) = (105, 104)；bit1 → (104, 105)
func LevelsToPairs(levels []bool) []Pair {
	pairs := make([]Pair, len(levels))
	for i, l := range levels {
		pairs[i] = templatePair(l)
	}
	return pairs
}

// FlattenPairs 时长对展开为平铺列表 [mark0, space0, mark1, space1, ...]
func FlattenPairs(pairs []Pair) []int32 {
	flat := make([]int32, 0, len(pairs)*2)
	for _, p := range pairs {
		flat = append(flat, p.Mark, p.Space)
	}
	return flat
}

func templatePair(one bool) Pair {
	if one {
		return Pair{Mark: SpaceDuration, Space: MarkDuration}
	}
	return Pair{Mark: MarkDuration, Space: SpaceDuration}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
