package iris

// Decoded 解调成功的结果
type Decoded struct {
	Frame   Frame   `json:"-"`
	Address uint16  `json:"address"`
	Command Command `json:"command"`
	Mode    Mode    `json:"mode"`
}

// Demodulate 解调平铺的 mark/space 时长列表
// pulses 按 [mark0, space0, mark1, space1, ...] 成对读取，符号忽略（接收源可能给出带符号时长）。
// 只读取前 96 对，多余的尾部脉冲不参与解码
func Demodulate(pulses []int32) (*Decoded, error) {
	pairs := make([]Pair, 0, FrameBits)
	for i := 0; i+1 < len(pulses) && len(pairs) < FrameBits; i += 2 {
		pairs = append(pairs, Pair{Mark: abs32(pulses[i]), Space: abs32(pulses[i+1])})
	}
	return DemodulatePairs(pairs)
}

// DemodulatePairs 解调已成对的时长
// 单次扫描：任一对无法分类立即返回 *TimingError；不足 96 位返回 ErrTruncated；
// 校验失败返回 *ChecksumError（携带已解出的帧）。不返回部分帧
func DemodulatePairs(pairs []Pair) (*Decoded, error) {
	bits := make([]byte, 0, FrameBits)
	for i, p := range pairs {
		if len(bits) == FrameBits {
			break
		}
		bit, ok := ClassifyPair(p)
		if !ok {
			return nil, &TimingError{Index: i, Pair: p}
		}
		bits = append(bits, bit)
	}
	if len(bits) < FrameBits {
		return nil, ErrTruncated
	}

	frame := packBits(bits)
	if !VerifyChecksum(frame) {
		return nil, &ChecksumError{Frame: frame}
	}
	d := DecodeFrame(frame)
	return &d, nil
}

// DecodeFrame 拆出帧中的地址/指令/区域，不做校验
func DecodeFrame(frame Frame) Decoded {
	return Decoded{
		Frame:   frame,
		Address: frame.Address(),
		Command: frame.Command(),
		Mode:    frame.Mode(),
	}
}

// ClassifyPair 按容差窗口判定一个时长对
// bit0 模板 (mark≈105, space≈104)，bit1 模板 (mark≈104, space≈105)，两个分量都需落在 ±Tolerance 内。
// 两个模板同时满足时取总偏差更小者，偏差相同按 bit0 处理
func ClassifyPair(p Pair) (bit byte, ok bool) {
	d0, in0 := templateDistance(p, MarkDuration, SpaceDuration)
	d1, in1 := templateDistance(p, SpaceDuration, MarkDuration)
	switch {
	case in1 && (!in0 || d1 < d0):
		return 1, true
	case in0:
		return 0, true
	default:
		return 0, false
	}
}

func templateDistance(p Pair, mark, space int32) (int32, bool) {
	dm := abs32(p.Mark - mark)
	ds := abs32(p.Space - space)
	return dm + ds, dm <= Tolerance && ds <= Tolerance
}
