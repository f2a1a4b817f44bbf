// internal/sensor/reader.go
package sensor

import (
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/register"
)

// BaseAddress is the first holding register of the QM30VT2 alias block
// (documented as 45201).
const BaseAddress uint16 = 5200

// Bus is the bulk-read primitive supplied by the transport layer.
// Framing, CRC and timing are the implementation's concern.
type Bus interface {
	ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error)
}

// Slot maps one field to its word offset inside the block.
type Slot struct {
	Field  register.Field
	Offset uint16
}

// Layout is the fixed field-to-offset table of one frame.
var Layout = []Slot{
	{register.ZVelRMSIn, 0},
	{register.ZVelRMSMM, 1},
	{register.TempF, 2},
	{register.TempC, 3},
	{register.XVelRMSIn, 4},
	{register.XVelRMSMM, 5},
	{register.ZAccPeak, 6},
	{register.XAccPeak, 7},
	{register.ZVelFreq, 8},
	{register.XVelFreq, 9},
	{register.ZAccRMS, 10},
	{register.XAccRMS, 11},
	{register.ZAccKurt, 12},
	{register.XAccKurt, 13},
	{register.ZAccCF, 14},
	{register.XAccCF, 15},
	{register.ZVelPeakIn, 16},
	{register.ZVelPeakMM, 17},
	{register.XVelPeakIn, 18},
	{register.XVelPeakMM, 19},
	{register.ZAccRMSHF, 20},
	{register.XAccRMSHF, 21},
}

// ReadFrame performs one bulk read and decodes every field.
// All-or-nothing: any failure returns a nil record.
// No retries.
func ReadFrame(bus Bus, unitID uint8) (*Measurement, error) {
	return readFrame(bus, unitID, Layout)
}

func readFrame(bus Bus, unitID uint8, layout []Slot) (*Measurement, error) {
	qty := uint16(len(layout))

	words, err := bus.ReadHoldingRegisters(unitID, BaseAddress, qty)
	if err != nil {
		return nil, newTransportError(err)
	}
	if len(words) < int(qty) {
		return nil, newTransportError(fmt.Errorf("%w: got=%d want=%d", ErrShortRead, len(words), qty))
	}

	m := &Measurement{
		UnitID: unitID,
		values: make(map[register.Field]register.Value, len(layout)),
	}

	for _, s := range layout {
		if int(s.Offset) >= len(words) {
			return nil, &DecodeError{
				Field: s.Field,
				Err:   fmt.Errorf("offset %d outside block of %d", s.Offset, len(words)),
			}
		}

		v, err := register.Decode(s.Field, words[s.Offset])
		if err != nil {
			return nil, &DecodeError{Field: s.Field, Err: err}
		}
		m.values[s.Field] = v
	}

	return m, nil
}
