// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a minimal valid config
func base() *Config {
	return &Config{
		Sensor: SensorConfig{Address: "/dev/ttyUSB0"},
	}
}

func u16(v uint16) *uint16 { return &v }

func target(endpoint string, unitID uint8, addr uint16, statusAddr *uint16) MirrorTarget {
	return MirrorTarget{
		Endpoint:      endpoint,
		UnitID:        unitID,
		Address:       addr,
		StatusAddress: statusAddr,
	}
}

// ---- tests ----

func TestValidate_MinimalOK(t *testing.T) {
	require.NoError(t, Validate(base()))
}

func TestValidate_SensorAddressRequired(t *testing.T) {
	cfg := base()
	cfg.Sensor.Address = ""
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsNegativeTimings(t *testing.T) {
	cases := map[string]func(c *Config){
		"poll":     func(c *Config) { c.Poll.IntervalMs = -1 },
		"stale":    func(c *Config) { c.Poll.StaleAfterS = -1 },
		"timeout":  func(c *Config) { c.Sensor.TimeoutMs = -5 },
		"ready":    func(c *Config) { c.Display.ReadyTimeoutMs = -1 },
		"dpoll":    func(c *Config) { c.Display.PollIntervalMs = -1 },
		"slides":   func(c *Config) { c.Display.SlideshowMs = -1 },
		"mirrorto": func(c *Config) { c.Mirror.TimeoutMs = -1 },
	}
	for name, mut := range cases {
		cfg := base()
		mut(cfg)
		assert.Error(t, Validate(cfg), name)
	}
}

func TestValidate_ZeroTimingsAllowed(t *testing.T) {
	cfg := base()
	cfg.Display.ReadyTimeoutMs = 0
	cfg.Display.PollIntervalMs = 0
	require.NoError(t, Validate(cfg))
}

func TestValidate_SerialFraming(t *testing.T) {
	cases := map[string]func(c *Config){
		"mode":   func(c *Config) { c.Sensor.Mode = "ascii" },
		"parity": func(c *Config) { c.Sensor.Parity = "X" },
		"data":   func(c *Config) { c.Sensor.DataBits = 9 },
		"stop":   func(c *Config) { c.Sensor.StopBits = 3 },
		"unit":   func(c *Config) { c.Sensor.UnitID = 248 },
	}
	for name, mut := range cases {
		cfg := base()
		mut(cfg)
		assert.Error(t, Validate(cfg), name)
	}
}

func TestValidate_DisplayAddress(t *testing.T) {
	cfg := base()
	cfg.Display.Address = 0x80
	assert.Error(t, Validate(cfg))
}

func TestValidate_MQTT(t *testing.T) {
	cfg := base()
	cfg.Telemetry.MQTT = &MQTTConfig{}
	assert.Error(t, Validate(cfg), "broker")

	cfg.Telemetry.MQTT = &MQTTConfig{Broker: "tcp://localhost:1883", QoS: 3}
	assert.Error(t, Validate(cfg), "qos")

	cfg.Telemetry.MQTT.QoS = 1
	require.NoError(t, Validate(cfg))
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := base()
	cfg.Log.Level = "trace"
	assert.Error(t, Validate(cfg))
}

func TestValidate_MirrorNoOverlapDifferentEndpoints(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 0, nil),
		target("ep2", 1, 0, nil),
	}
	require.NoError(t, Validate(cfg))
}

func TestValidate_MirrorNoOverlapDifferentUnit(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 0, nil),
		target("ep1", 2, 0, nil),
	}
	require.NoError(t, Validate(cfg))
}

func TestValidate_MirrorDataOverlap(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 0, nil),
		target("ep1", 1, 21, nil), // data block is 22 registers
	}
	assert.Error(t, Validate(cfg), "overlap")
}

func TestValidate_MirrorAdjacentBlocksOK(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 0, u16(22)),
	}
	require.NoError(t, Validate(cfg))
}

func TestValidate_MirrorStatusOverlapsData(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 100, u16(90)), // 90..105 hits 100..121
	}
	assert.Error(t, Validate(cfg), "overlap")
}

func TestValidate_MirrorPastRegisterSpace(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{
		target("ep1", 1, 0xFFF0, nil),
	}
	assert.Error(t, Validate(cfg))
}

func TestValidate_MirrorTarget(t *testing.T) {
	cfg := base()
	cfg.Mirror.Targets = []MirrorTarget{{Endpoint: ""}}
	assert.Error(t, Validate(cfg), "endpoint")

	cfg.Mirror.Targets = []MirrorTarget{{Endpoint: "ep", Transport: "http"}}
	assert.Error(t, Validate(cfg), "transport")
}

func TestValidate_DeviceNameASCII(t *testing.T) {
	cfg := base()
	cfg.Mirror.DeviceName = "pumpé"
	assert.Error(t, Validate(cfg))
}
