// internal/monitor/slides.go
package monitor

import (
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/display"
	"github.com/tamzrod/vibration-monitor/internal/register"
	"github.com/tamzrod/vibration-monitor/internal/sensor"
)

type slideDef struct {
	field  register.Field
	format string
}

// Slide order is the slide id.
var slideDefs = []slideDef{
	{register.TempF, "%.2f F"},
	{register.TempC, "%.2f C"},
	{register.ZVelRMSIn, "%.4f in/sec"},
	{register.ZVelRMSMM, "%.3f mm/sec"},
	{register.XVelRMSIn, "%.4f in/sec"},
	{register.XVelRMSMM, "%.3f mm/sec"},
	{register.ZAccPeak, "%.3f G"},
	{register.XAccPeak, "%.3f G"},
	{register.ZVelFreq, "%.1f Hz"},
	{register.XVelFreq, "%.1f Hz"},
	{register.ZAccRMS, "%.3f G"},
	{register.XAccRMS, "%.3f G"},
	{register.ZAccKurt, "%.3f"},
	{register.XAccKurt, "%.3f"},
	{register.ZAccCF, "%.3f"},
	{register.XAccCF, "%.3f"},
	{register.ZVelPeakIn, "%.4f in/sec"},
	{register.ZVelPeakMM, "%.3f mm/sec"},
	{register.XVelPeakIn, "%.4f in/sec"},
	{register.XVelPeakMM, "%.3f mm/sec"},
	{register.ZAccRMSHF, "%.3f G"},
	{register.XAccRMSHF, "%.3f G"},
}

// FirmwareSlideID shows the display firmware version after the measurements.
var FirmwareSlideID = uint8(len(slideDefs))

const firmwareLabel = "Firmware"

// Slides lists every slide the monitor registers.
func Slides() []display.Slide {
	out := make([]display.Slide, 0, len(slideDefs)+1)
	for i, s := range slideDefs {
		out = append(out, display.Slide{ID: uint8(i), Label: s.field.Label()})
	}
	return append(out, display.Slide{ID: FirmwareSlideID, Label: firmwareLabel})
}

// SlideValues formats m into slide texts, in slide order.
func SlideValues(m *sensor.Measurement) (map[uint8]string, []uint8) {
	values := make(map[uint8]string, len(slideDefs))
	order := make([]uint8, 0, len(slideDefs))

	for i, s := range slideDefs {
		v, ok := m.Get(s.field)
		if !ok {
			continue
		}
		id := uint8(i)
		values[id] = fmt.Sprintf(s.format, v.Float64())
		order = append(order, id)
	}
	return values, order
}
