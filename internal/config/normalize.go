// internal/config/normalize.go
package config

import "github.com/tamzrod/vibration-monitor/internal/status"

// Defaults match the QM30VT2 factory serial settings.
const (
	DefaultSensorName     = "qm30vt2"
	DefaultMode           = "rtu"
	DefaultBaudRate       = 19200
	DefaultDataBits       = 8
	DefaultParity         = "N"
	DefaultStopBits       = 1
	DefaultUnitID         = 1
	DefaultTimeoutMs      = 500
	DefaultPollIntervalMs = 5000

	DefaultDisplayAddress  = 0x12
	DefaultDisplayPollMs   = 50
	DefaultReadyTimeoutMs  = 1000
	DefaultSlideshowMs     = 30000
	DefaultSummaryTitle    = "Modbus RD"
	DefaultMQTTTopic       = "vibration/{device}/sensor"
	DefaultMQTTTimeoutMs   = 5000
	DefaultMirrorTimeoutMs = 1000
	DefaultMirrorTransport = "modbus"
	DefaultLogLevel        = "info"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Sensor
	setString(&s.Name, DefaultSensorName)
	setString(&s.Mode, DefaultMode)
	setInt(&s.BaudRate, DefaultBaudRate)
	setInt(&s.DataBits, DefaultDataBits)
	setString(&s.Parity, DefaultParity)
	setInt(&s.StopBits, DefaultStopBits)
	setInt(&s.TimeoutMs, DefaultTimeoutMs)
	if s.UnitID == 0 {
		s.UnitID = DefaultUnitID
	}

	setInt(&cfg.Poll.IntervalMs, DefaultPollIntervalMs)

	d := &cfg.Display
	if d.Address == 0 {
		d.Address = DefaultDisplayAddress
	}
	setInt(&d.PollIntervalMs, DefaultDisplayPollMs)
	setInt(&d.ReadyTimeoutMs, DefaultReadyTimeoutMs)
	setInt(&d.SlideshowMs, DefaultSlideshowMs)
	setString(&d.Title, DefaultSummaryTitle)

	if m := cfg.Telemetry.MQTT; m != nil {
		setString(&m.Topic, DefaultMQTTTopic)
		setInt(&m.TimeoutMs, DefaultMQTTTimeoutMs)
	}

	mi := &cfg.Mirror
	setInt(&mi.TimeoutMs, DefaultMirrorTimeoutMs)
	setString(&mi.DeviceName, s.Name)
	// ASCII already validated; truncate to what the status block holds.
	if len(mi.DeviceName) > status.DeviceNameMaxChars {
		mi.DeviceName = mi.DeviceName[:status.DeviceNameMaxChars]
	}
	for i := range mi.Targets {
		setString(&mi.Targets[i].Transport, DefaultMirrorTransport)
	}

	setString(&cfg.Log.Level, DefaultLogLevel)
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
