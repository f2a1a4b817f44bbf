// internal/sensor/measurement.go
package sensor

import (
	"encoding/json"

	"github.com/loopholelabs/logging/types"

	"github.com/tamzrod/vibration-monitor/internal/register"
)

// Measurement is one fully decoded frame.
// It is created per poll cycle and owned by the caller.
type Measurement struct {
	UnitID uint8
	values map[register.Field]register.Value
}

// NewMeasurement builds a record from already decoded values.
func NewMeasurement(unitID uint8, values map[register.Field]register.Value) *Measurement {
	m := &Measurement{
		UnitID: unitID,
		values: make(map[register.Field]register.Value, len(values)),
	}
	for f, v := range values {
		m.values[f] = v
	}
	return m
}

// Get returns the value of one field.
func (m *Measurement) Get(f register.Field) (register.Value, bool) {
	v, ok := m.values[f]
	return v, ok
}

// Value returns the value of one field, zero when absent.
func (m *Measurement) Value(f register.Field) register.Value {
	return m.values[f]
}

// Float64 is a shortcut for Value(f).Float64().
func (m *Measurement) Float64(f register.Field) float64 {
	return m.values[f].Float64()
}

// Len is the number of populated fields.
func (m *Measurement) Len() int {
	return len(m.values)
}

// logLine describes one entry of the measurement debug dump.
type logLine struct {
	field    register.Field
	name     string
	decimals int
}

var logLines = []logLine{
	{register.TempC, "temperature", 2},

	{register.ZVelRMSMM, "z_rms_velocity_mm_s", 3},
	{register.ZVelPeakMM, "z_peak_velocity_mm_s", 3},
	{register.ZVelFreq, "z_peak_velocity_freq_hz", 1},
	{register.ZAccRMS, "z_rms_acceleration_g", 3},
	{register.ZAccPeak, "z_peak_acceleration_g", 3},
	{register.ZAccCF, "z_crest_factor", 3},
	{register.ZAccKurt, "z_kurtosis", 3},
	{register.ZAccRMSHF, "z_hf_rms_acceleration_g", 3},

	{register.XVelRMSMM, "x_rms_velocity_mm_s", 3},
	{register.XVelPeakMM, "x_peak_velocity_mm_s", 3},
	{register.XVelFreq, "x_peak_velocity_freq_hz", 1},
	{register.XAccRMS, "x_rms_acceleration_g", 3},
	{register.XAccPeak, "x_peak_acceleration_g", 3},
	{register.XAccCF, "x_crest_factor", 3},
	{register.XAccKurt, "x_kurtosis", 3},
	{register.XAccRMSHF, "x_hf_rms_acceleration_g", 3},
}

// LogFields writes a debug dump of the metric fields.
func (m *Measurement) LogFields(log types.Logger) {
	if log == nil {
		return
	}
	for _, l := range logLines {
		log.Debug().
			Uint8("unit", m.UnitID).
			Str("field", l.name).
			Str("value", m.values[l.field].Format(l.decimals)).
			Msg("qm30vt2 measurement")
	}
}

// ---- telemetry document ----

// Telemetry is the JSON document streamed per measurement.
type Telemetry struct {
	Temperature TemperatureDoc `json:"temperature"`
	XAxis       AxisDoc        `json:"x_axis"`
	ZAxis       AxisDoc        `json:"z_axis"`
}

type TemperatureDoc struct {
	Celsius    float64 `json:"celcius"`
	Fahrenheit float64 `json:"farenheight"`
}

type AxisDoc struct {
	Acceleration AccelerationDoc `json:"acceleration"`
	Velocity     VelocityDoc     `json:"velocity"`
}

type AccelerationDoc struct {
	CrestFactor      float64 `json:"crest_factor"`
	HighFrequencyRMS float64 `json:"high_frequency_rms"`
	Kurtosis         float64 `json:"kurtosis"`
	Peak             float64 `json:"peak"`
	RMS              float64 `json:"rms"`
}

type VelocityDoc struct {
	Peak PeakVelocityDoc `json:"peak"`
	RMS  RMSVelocityDoc  `json:"rms"`
}

type PeakVelocityDoc struct {
	Frequency float64 `json:"frequency"`
	InPerSec  float64 `json:"in_per_sec"`
	MMPerSec  float64 `json:"mm_per_sec"`
}

type RMSVelocityDoc struct {
	InPerSec float64 `json:"in_per_sec"`
	MMPerSec float64 `json:"mm_per_sec"`
}

// Telemetry maps the record onto the streamed document.
func (m *Measurement) Telemetry() Telemetry {
	f := m.Float64
	return Telemetry{
		Temperature: TemperatureDoc{
			Celsius:    f(register.TempC),
			Fahrenheit: f(register.TempF),
		},
		XAxis: AxisDoc{
			Acceleration: AccelerationDoc{
				CrestFactor:      f(register.XAccCF),
				HighFrequencyRMS: f(register.XAccRMSHF),
				Kurtosis:         f(register.XAccKurt),
				Peak:             f(register.XAccPeak),
				RMS:              f(register.XAccRMS),
			},
			Velocity: VelocityDoc{
				Peak: PeakVelocityDoc{
					Frequency: f(register.XVelFreq),
					InPerSec:  f(register.XVelPeakIn),
					MMPerSec:  f(register.XVelPeakMM),
				},
				RMS: RMSVelocityDoc{
					InPerSec: f(register.XVelRMSIn),
					MMPerSec: f(register.XVelRMSMM),
				},
			},
		},
		ZAxis: AxisDoc{
			Acceleration: AccelerationDoc{
				CrestFactor:      f(register.ZAccCF),
				HighFrequencyRMS: f(register.ZAccRMSHF),
				Kurtosis:         f(register.ZAccKurt),
				Peak:             f(register.ZAccPeak),
				RMS:              f(register.ZAccRMS),
			},
			Velocity: VelocityDoc{
				Peak: PeakVelocityDoc{
					Frequency: f(register.ZVelFreq),
					InPerSec:  f(register.ZVelPeakIn),
					MMPerSec:  f(register.ZVelPeakMM),
				},
				RMS: RMSVelocityDoc{
					InPerSec: f(register.ZVelRMSIn),
					MMPerSec: f(register.ZVelRMSMM),
				},
			},
		},
	}
}

// MarshalTelemetry encodes the telemetry document as JSON.
func (m *Measurement) MarshalTelemetry() ([]byte, error) {
	return json.Marshal(m.Telemetry())
}
