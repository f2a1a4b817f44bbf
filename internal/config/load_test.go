// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
sensor:
  address: /dev/ttyUSB0
  unit_id: 3
poll:
  interval_ms: 2000
display:
  enabled: true
telemetry:
  mqtt:
    broker: tcp://broker:1883
    qos: 1
mirror:
  device_name: press-line-4-bearing-north
  targets:
    - endpoint: 10.0.0.5:502
      unit_id: 1
      address: 0
      status_address: 100
metrics:
  listen: ":9100"
`

func TestLoad_ValidateNormalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, "rtu", cfg.Sensor.Mode)
	assert.Equal(t, 19200, cfg.Sensor.BaudRate)
	assert.Equal(t, "N", cfg.Sensor.Parity)
	assert.Equal(t, uint8(3), cfg.Sensor.UnitID)
	assert.Equal(t, 2000, cfg.Poll.IntervalMs)

	assert.True(t, cfg.Display.Enabled)
	assert.Equal(t, uint16(0x12), cfg.Display.Address)
	assert.Equal(t, 50, cfg.Display.PollIntervalMs)
	assert.Equal(t, 1000, cfg.Display.ReadyTimeoutMs)
	assert.Equal(t, "Modbus RD", cfg.Display.Title)

	require.NotNil(t, cfg.Telemetry.MQTT)
	assert.Equal(t, DefaultMQTTTopic, cfg.Telemetry.MQTT.Topic)

	assert.Equal(t, "press-line-4-bea", cfg.Mirror.DeviceName, "truncated to 16")
	require.Len(t, cfg.Mirror.Targets, 1)
	assert.Equal(t, "modbus", cfg.Mirror.Targets[0].Transport)
	require.NotNil(t, cfg.Mirror.Targets[0].StatusAddress)
	assert.Equal(t, uint16(100), *cfg.Mirror.Targets[0].StatusAddress)

	assert.Equal(t, ":9100", cfg.Metrics.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("sensor:\n  adress: /dev/ttyUSB0\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNormalize_DeviceNameFromSensor(t *testing.T) {
	cfg := base()
	Normalize(cfg)
	assert.Equal(t, DefaultSensorName, cfg.Mirror.DeviceName)
	assert.Nil(t, cfg.Telemetry.MQTT)

	Normalize(nil) // no panic
}
