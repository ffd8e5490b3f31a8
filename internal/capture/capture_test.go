package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

func TestLoad_Testdata(t *testing.T) {
	f, err := Load("testdata/captures.yaml")
	require.NoError(t, err)
	require.Len(t, f.Captures, 2)

	raw, ok := f.Find("remote-power-pool")
	require.True(t, ok)
	assert.Equal(t, FormatRaw, raw.Format)
	assert.Len(t, raw.Pulses, 240)

	decoded, err := raw.Decode()
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	for _, d := range decoded {
		assert.Equal(t, uint16(0xF9CB), d.Address)
		assert.Equal(t, iris.CommandPower, d.Command)
		assert.Equal(t, iris.ModePool, d.Mode)
	}

	pairs, ok := f.Find("pairs-red-spa")
	require.True(t, ok)
	decoded, err = pairs.Decode()
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, iris.CommandRed, decoded[0].Command)
	assert.Equal(t, iris.ModeSpa, decoded[0].Mode)

	_, ok = f.Find("missing")
	assert.False(t, ok)
}

func TestReplay_Testdata(t *testing.T) {
	f, err := Load("testdata/captures.yaml")
	require.NoError(t, err)

	for _, r := range f.Replay() {
		assert.NoError(t, r.Err, r.Name)
		assert.NotEmpty(t, r.Decoded, r.Name)
	}
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte("captures:\n  - pulses: [105, -104]\n"))
	require.NoError(t, err)
	require.Len(t, f.Captures, 1)
	assert.Equal(t, "capture-0", f.Captures[0].Name)
	assert.Equal(t, FormatRaw, f.Captures[0].Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"语法错误", "captures: [\n"},
		{"未知格式", "captures:\n  - name: x\n    format: wav\n    pulses: [1]\n"},
		{"无脉冲", "captures:\n  - name: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCheck_Mismatch(t *testing.T) {
	seq := iris.Modulate(iris.BuildFrame(0xF9CB, iris.CommandPower, iris.ModePool))
	c := Capture{
		Name:   "wrong-mode",
		Format: FormatRaw,
		Pulses: seq,
		Expect: &Expect{Address: "0xF9CB", Command: "POWER", Mode: "SPA"},
	}
	err := c.Check()
	assert.ErrorContains(t, err, "wrong-mode")

	c.Expect = &Expect{Address: "0xF9CB", Command: "POWER", Mode: "POOL", Frames: 2}
	assert.ErrorContains(t, c.Check(), "got 1 frames")

	c.Expect.Frames = 1
	assert.NoError(t, c.Check())
}

func TestDecode_PairsTruncated(t *testing.T) {
	c := Capture{Name: "short", Format: FormatPairs, Pulses: []int32{105, 104}}
	_, err := c.Decode()
	assert.ErrorIs(t, err, iris.ErrTruncated)
}
