package iris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulate_MatchesRealCapture(t *testing.T) {
	seq := Modulate(BuildFrame(0xF9CB, CommandPower, ModePool))

	// 单帧波形与实测抓包前 61 段完全一致
	require.Len(t, seq, 61)
	assert.Equal(t, PulseSequence(realCapture[:61]), seq)
	assert.True(t, seq.FirstMark())
}

func TestModulate_RunLengthInvariant(t *testing.T) {
	addresses := []uint16{0x0000, 0x00FF, 0x5555, 0xAAAA, 0xF9CB, 0xFFFF}
	for _, addr := range addresses {
		for _, cmd := range append(Commands(), Command(0x00), Command(0xFF)) {
			for _, mode := range append(Modes(), Mode(0x00), Mode(0xFF)) {
				seq := Modulate(BuildFrame(addr, cmd, mode))
				assert.True(t, seq.Alternates(), "addr=%04X cmd=%s mode=%s", addr, cmd, mode)
				assert.LessOrEqual(t, len(seq), FrameBits)

				// 总时长守恒：每个 1 位 105us，每个 0 位 104us
				var ones int64
				for _, b := range BuildFrame(addr, cmd, mode) {
					for k := 0; k < 8; k++ {
						ones += int64(b >> uint(k) & 1)
					}
				}
				want := ones*int64(MarkDuration) + (FrameBits-ones)*int64(SpaceDuration)
				assert.Equal(t, want, seq.Duration())
			}
		}
	}
}

func TestModulate_Merging(t *testing.T) {
	var f Frame
	// 全 0 帧：一整段空闲
	seq := Modulate(f)
	assert.Equal(t, PulseSequence{-SpaceDuration * FrameBits}, seq)

	// 全 1 帧：一整段有效电平
	for i := range f {
		f[i] = 0xFF
	}
	seq = Modulate(f)
	assert.Equal(t, PulseSequence{MarkDuration * FrameBits}, seq)
}

func TestPulseSequence_Raw(t *testing.T) {
	seq := PulseSequence{105, -312, 210, -104}
	assert.Equal(t, []uint32{105, 312, 210, 104}, seq.Raw())
	assert.True(t, seq.FirstMark())
	assert.Equal(t, int64(731), seq.Duration())

	assert.False(t, PulseSequence{-104, 105}.FirstMark())
	assert.False(t, PulseSequence{}.FirstMark())
}

func TestPulseSequence_Alternates(t *testing.T) {
	assert.True(t, PulseSequence{105, -104, 105}.Alternates())
	assert.False(t, PulseSequence{105, 105}.Alternates())
	assert.False(t, PulseSequence{-104, -104}.Alternates())
	assert.False(t, PulseSequence{105, 0, -104}.Alternates())
}

func TestPulseSequence_Pairs(t *testing.T) {
	f := BuildFrame(0xF9CB, CommandPower, ModePool)
	pairs, err := Modulate(f).Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, FrameBits)
	assert.Equal(t, FramePairs(f), pairs)

	// 0xAA：1010...
	assert.Equal(t, Pair{Mark: 104, Space: 105}, pairs[0])
	assert.Equal(t, Pair{Mark: 105, Space: 104}, pairs[1])
}

func TestFlattenPairs(t *testing.T) {
	flat := FlattenPairs([]Pair{{105, 104}, {104, 105}})
	assert.Equal(t, []int32{105, 104, 104, 105}, flat)
}
