package iris

// SliceLevels 将游程累加后的波形（发送形式或原始抓包）展开为逐位电平
// 正时长按 MarkDuration、负时长按 SpaceDuration 切分为整数个符号，
// 每段允许 ±tolerance 的总偏差；零值、无法整除或超过一帧长度的段返回 *CaptureError。
// 输入超过 MaxCaptureDurations 个时长返回 ErrCaptureTooLong
func SliceLevels(raw []int32, tolerance int32) ([]bool, error) {
	if len(raw) > MaxCaptureDurations {
		return nil, ErrCaptureTooLong
	}
	levels := make([]bool, 0, len(raw)*2)
	for i, d := range raw {
		n, mark, ok := segmentSymbols(d, tolerance)
		if !ok {
			return nil, &CaptureError{Index: i, Duration: d}
		}
		levels = appendLevels(levels, mark, n)
	}
	return levels, nil
}

// splitLevels 与 SliceLevels 相同的切分规则，但遇到无效段时断开而不是终止：
// 返回各段连续电平以及第一个无效段（没有时为 nil）
func splitLevels(raw []int32, tolerance int32) ([][]bool, *CaptureError) {
	var (
		chunks   [][]bool
		current  []bool
		firstBad *CaptureError
	)
	for i, d := range raw {
		n, mark, ok := segmentSymbols(d, tolerance)
		if !ok {
			if firstBad == nil {
				firstBad = &CaptureError{Index: i, Duration: d}
			}
			if len(current) > 0 {
				chunks = append(chunks, current)
				current = nil
			}
			continue
		}
		current = appendLevels(current, mark, n)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks, firstBad
}

// segmentSymbols 单个时长对应的符号个数与电平，1..FrameBits 之外视为无效
func segmentSymbols(d, tolerance int32) (n int, mark, ok bool) {
	if d == 0 {
		return 0, false, false
	}
	mark = d > 0
	unit := int64(SpaceDuration)
	if mark {
		unit = int64(MarkDuration)
	}
	mag := int64(d)
	if mag < 0 {
		mag = -mag
	}
	count := (mag + unit/2) / unit
	if count == 0 || count > FrameBits {
		return 0, mark, false
	}
	diff := mag - count*unit
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(tolerance) {
		return 0, mark, false
	}
	return int(count), mark, true
}

func appendLevels(levels []bool, mark bool, n int) []bool {
	for k := 0; k < n; k++ {
		levels = append(levels, mark)
	}
	return levels
}

// FindFrames 在逐位电平流中搜索同步头+载荷起始（48 位），
// 仅保留校验通过的完整帧；命中后跳过整帧继续搜索
func FindFrames(levels []bool) []Frame {
	var frames []Frame
	pattern := syncPattern()
	for i := 0; i+FrameBits <= len(levels); {
		if !matchAt(levels, i, pattern) {
			i++
			continue
		}
		bits := make([]byte, FrameBits)
		for k := range bits {
			if levels[i+k] {
				bits[k] = 1
			}
		}
		frame := packBits(bits)
		if !VerifyChecksum(frame) {
			i++
			continue
		}
		frames = append(frames, frame)
		i += FrameBits
	}
	return frames
}

// DecodeCapture 在原始抓包中搜索所有有效帧
// 噪声、重发间隔等无效段把抓包断开为若干片段，各片段独立搜索；
// 只有一帧都没找到且存在无效段时才返回该段的 *CaptureError
func DecodeCapture(raw []int32, tolerance int32) ([]Frame, error) {
	if len(raw) > MaxCaptureDurations {
		return nil, ErrCaptureTooLong
	}
	chunks, firstBad := splitLevels(raw, tolerance)
	var frames []Frame
	for _, chunk := range chunks {
		frames = append(frames, FindFrames(chunk)...)
	}
	if len(frames) == 0 && firstBad != nil {
		return nil, firstBad
	}
	return frames, nil
}

func syncPattern() []bool {
	head := make([]byte, 0, 6)
	head = append(head, syncHeader[:]...)
	head = append(head, preamble[:]...)
	pattern := make([]bool, 0, len(head)*8)
	for _, b := range head {
		for bit := 7; bit >= 0; bit-- {
			pattern = append(pattern, b&(1<<uint(bit)) != 0)
		}
	}
	return pattern
}

func matchAt(levels []bool, at int, pattern []bool) bool {
	if at+len(pattern) > len(levels) {
		return false
	}
	for k, want := range pattern {
		if levels[at+k] != want {
			return false
		}
	}
	return true
}
