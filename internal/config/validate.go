// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/sensor"
	"github.com/tamzrod/vibration-monitor/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are allowed everywhere Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	if err := validateSensor(cfg.Sensor); err != nil {
		return err
	}

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0")
	}
	if cfg.Poll.StaleAfterS < 0 || cfg.Poll.StaleAfterS > status.MaxSecondsInError {
		return fmt.Errorf("poll: stale_after_s out of range")
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return err
	}

	if m := cfg.Telemetry.MQTT; m != nil {
		if m.Broker == "" {
			return fmt.Errorf("telemetry.mqtt: broker required")
		}
		if m.QoS > 2 {
			return fmt.Errorf("telemetry.mqtt: qos must be 0, 1 or 2")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("telemetry.mqtt: timeout_ms must be >= 0")
		}
	}

	if err := validateMirror(cfg.Mirror); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}

func validateSensor(s SensorConfig) error {
	if s.Address == "" {
		return fmt.Errorf("sensor: address required")
	}

	switch s.Mode {
	case "", "rtu", "tcp":
	default:
		return fmt.Errorf("sensor: unknown mode %q", s.Mode)
	}

	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("sensor: parity must be N, E or O")
	}

	if s.BaudRate < 0 || s.TimeoutMs < 0 {
		return fmt.Errorf("sensor: baud_rate and timeout_ms must be >= 0")
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("sensor: data_bits must be 5..8")
	}
	if s.StopBits < 0 || s.StopBits > 2 {
		return fmt.Errorf("sensor: stop_bits must be 1 or 2")
	}
	if s.UnitID > 247 {
		return fmt.Errorf("sensor: unit_id %d out of range", s.UnitID)
	}
	return nil
}

func validateDisplay(d DisplayConfig) error {
	if d.PollIntervalMs < 0 || d.ReadyTimeoutMs < 0 || d.SlideshowMs < 0 {
		return fmt.Errorf("display: timings must be >= 0")
	}
	if d.Address > 0x7F {
		return fmt.Errorf("display: address 0x%x is not a 7-bit i2c address", d.Address)
	}
	if !isASCII(d.Title) {
		return fmt.Errorf("display: title must contain ASCII characters only")
	}
	return nil
}

func validateMirror(m MirrorConfig) error {
	type span struct {
		start uint32
		end   uint32 // inclusive
		what  string
	}

	if !isASCII(m.DeviceName) {
		return fmt.Errorf("mirror: device_name must contain ASCII characters only")
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("mirror: timeout_ms must be >= 0")
	}

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	claim := func(t MirrorTarget, start uint16, size int, what string) error {
		s := span{start: uint32(start), end: uint32(start) + uint32(size) - 1, what: what}
		if s.end > 0xFFFF {
			return fmt.Errorf("mirror: %s block at %d on %s runs past the register space", what, start, t.Endpoint)
		}

		key := fmt.Sprintf("%s|%d", t.Endpoint, t.UnitID)
		for _, o := range spans[key] {
			// overlap check (inclusive)
			if !(s.end < o.start || s.start > o.end) {
				return fmt.Errorf(
					"mirror overlap: endpoint=%s unit_id=%d %s=%d-%d overlaps %s=%d-%d",
					t.Endpoint, t.UnitID, s.what, s.start, s.end, o.what, o.start, o.end,
				)
			}
		}
		spans[key] = append(spans[key], s)
		return nil
	}

	for i, t := range m.Targets {
		if t.Endpoint == "" {
			return fmt.Errorf("mirror: target %d: endpoint required", i)
		}
		switch t.Transport {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("mirror: target %d: unknown transport %q", i, t.Transport)
		}

		if err := claim(t, t.Address, len(sensor.Layout), "data"); err != nil {
			return err
		}
		if t.StatusAddress != nil {
			if err := claim(t, *t.StatusAddress, status.BlockSize, "status"); err != nil {
				return err
			}
		}
	}

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
