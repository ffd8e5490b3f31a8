package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iris.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  env: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "iris-gateway", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, uint32(6), cfg.Iris.Repeat)
	assert.Equal(t, SinkLog, cfg.Iris.Sink)
	assert.Equal(t, int32(15), cfg.Iris.Tolerance)
	assert.Equal(t, "iris:rx", cfg.Receiver.QueueKey)

	addr, err := cfg.Iris.DeviceAddress()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xF9CB), addr)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
iris:
  address: "4660"
  repeat: 0
  sink: redis
  tolerance: 25
redis:
  enabled: true
  addr: redis:6379
receiver:
  enabled: true
  pollTimeout: 2s
api:
  auth:
    enabled: true
    apiKeys: ["sk_test_12345678"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	addr, err := cfg.Iris.DeviceAddress()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), addr)
	assert.Equal(t, uint32(0), cfg.Iris.Repeat)
	assert.Equal(t, SinkRedis, cfg.Iris.Sink)
	assert.Equal(t, int32(25), cfg.Iris.Tolerance)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Receiver.PollTimeout)
	assert.Equal(t, []string{"sk_test_12345678"}, cfg.API.Auth.APIKeys)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("IRIS_IRIS_ADDRESS", "0x00AB")
	cfg, err := Load(writeConfig(t, "app:\n  env: test\n"))
	require.NoError(t, err)

	addr, err := cfg.Iris.DeviceAddress()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x00AB), addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"地址超出16位", "iris:\n  address: \"0x1FFFF\"\n"},
		{"地址非法", "iris:\n  address: \"pool\"\n"},
		{"容差为零", "iris:\n  tolerance: 0\n"},
		{"容差过大", "iris:\n  tolerance: 52\n"},
		{"未知发送通道", "iris:\n  sink: gpio\n"},
		{"redis通道未启用redis", "iris:\n  sink: redis\n"},
		{"接收未启用redis", "receiver:\n  enabled: true\n"},
		{"认证无key", "api:\n  auth:\n    enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDeviceAddress_Empty(t *testing.T) {
	_, err := IrisConfig{}.DeviceAddress()
	assert.Error(t, err)
}
