package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermoblink-go/drivers/ntc"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "sim", cfg.Sampler.Kind)
	assert.Equal(t, 115200, cfg.Sampler.Baud)
	assert.Equal(t, "reject", cfg.NTC.Policy)
	assert.Equal(t, ntc.Beta, cfg.NTC.Beta)
	assert.Equal(t, uint32(500), cfg.Loop.PeriodMs)
	assert.Equal(t, uint8(0), cfg.Loop.SampleRetries)
	assert.Empty(t, cfg.MQTT.Broker)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sim", cfg.Sampler.Kind)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermoblink.yaml")
	yamlContent := `
sampler:
  kind: serial
  port: /dev/ttyUSB1
ntc:
  policy: clamp
  single_precision: true
loop:
  sample_retries: 3
mqtt:
  broker: tcp://localhost:1883
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serial", cfg.Sampler.Kind)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Sampler.Port)
	assert.Equal(t, 115200, cfg.Sampler.Baud)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "thermoblink", cfg.MQTT.Topic)

	cc, err := cfg.Control()
	require.NoError(t, err)
	assert.Equal(t, ntc.PolicyClamp, cc.NTC.Policy)
	assert.True(t, cc.NTC.SinglePrecision)
	assert.Equal(t, uint32(500), cc.PeriodMs)
	assert.Equal(t, uint8(3), cc.SampleRetries)
	assert.Equal(t, uint16(ntc.VMax), cc.NTC.VMax)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad_yaml.yaml":   "sampler: [",
		"bad_kind.yaml":   "sampler:\n  kind: i2c\n",
		"bad_policy.yaml": "ntc:\n  policy: guess\n",
		"no_port.yaml":    "sampler:\n  kind: serial\n  port: \"\"\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Sampler.Sequence = []uint16{100, 2000}
	cfg.Loop.PeriodMs = 250
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
