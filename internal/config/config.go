// internal/config/config.go
package config

type Config struct {
	Sensor    SensorConfig    `yaml:"sensor"`
	Poll      PollConfig      `yaml:"poll"`
	Display   DisplayConfig   `yaml:"display"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Mirror    MirrorConfig    `yaml:"mirror"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`    // rtu | tcp
	Address   string `yaml:"address"` // serial device or host:port
	BaudRate  int    `yaml:"baud_rate"`
	DataBits  int    `yaml:"data_bits"`
	Parity    string `yaml:"parity"` // N | E | O
	StopBits  int    `yaml:"stop_bits"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs  int `yaml:"interval_ms"`
	StaleAfterS int `yaml:"stale_after_s"` // 0 disables
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Bus            string `yaml:"bus"` // periph bus name, "" = first
	Address        uint16 `yaml:"address"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	ReadyTimeoutMs int    `yaml:"ready_timeout_ms"`
	SlideshowMs    int    `yaml:"slideshow_ms"`
	Title          string `yaml:"title"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	MQTT *MQTTConfig `yaml:"mqtt"` // optional
}

type MQTTConfig struct {
	Broker    string `yaml:"broker"`
	ClientID  string `yaml:"client_id"`
	DeviceID  string `yaml:"device_id"` // defaults to the machine id
	Topic     string `yaml:"topic"`     // may contain {device}
	QoS       uint8  `yaml:"qos"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- MIRROR ----

type MirrorConfig struct {
	DeviceName string         `yaml:"device_name"`
	TimeoutMs  int            `yaml:"timeout_ms"`
	Targets    []MirrorTarget `yaml:"targets"`
}

type MirrorTarget struct {
	Endpoint      string  `yaml:"endpoint"`
	Transport     string  `yaml:"transport"` // modbus | ingest
	UnitID        uint8   `yaml:"unit_id"`
	Address       uint16  `yaml:"address"`        // data block
	StatusAddress *uint16 `yaml:"status_address"` // status block (optional)
}

// ---- AMBIENT ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // "" disables
}

type LogConfig struct {
	Level string `yaml:"level"`
}
