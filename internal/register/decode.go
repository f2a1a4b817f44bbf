// internal/register/decode.go
package register

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrUnknownField is returned when a field has no scaling rule.
var ErrUnknownField = errors.New("register: unknown field")

// MicroPerUnit is the fractional resolution of a Value.
const MicroPerUnit = 1_000_000

// Rule is the fixed-point scaling of one register.
type Rule struct {
	Scale  uint16 // 10, 100, 1000 or 10000
	Signed bool   // reinterpret as two's-complement int16
}

// Rules is the scaling table for the QM30VT2 alias block.
// Only the temperature registers are signed.
var Rules = map[Field]Rule{
	ZVelRMSIn:  {Scale: 10000},
	XVelRMSIn:  {Scale: 10000},
	ZVelPeakIn: {Scale: 10000},
	XVelPeakIn: {Scale: 10000},

	ZVelRMSMM:  {Scale: 1000},
	XVelRMSMM:  {Scale: 1000},
	ZAccPeak:   {Scale: 1000},
	XAccPeak:   {Scale: 1000},
	ZAccRMS:    {Scale: 1000},
	XAccRMS:    {Scale: 1000},
	ZAccKurt:   {Scale: 1000},
	XAccKurt:   {Scale: 1000},
	ZAccCF:     {Scale: 1000},
	XAccCF:     {Scale: 1000},
	ZVelPeakMM: {Scale: 1000},
	XVelPeakMM: {Scale: 1000},
	ZAccRMSHF:  {Scale: 1000},
	XAccRMSHF:  {Scale: 1000},

	TempF: {Scale: 100, Signed: true},
	TempC: {Scale: 100, Signed: true},

	ZVelFreq: {Scale: 10},
	XVelFreq: {Scale: 10},
}

// Value is a fixed-point reading: Int whole units plus Micro millionths.
// For negative readings both parts are <= 0.
type Value struct {
	Int   int32
	Micro int32
}

// Float64 returns the value as a float.
func (v Value) Float64() float64 {
	return float64(v.Int) + float64(v.Micro)/MicroPerUnit
}

// Format renders the value with a fixed number of decimals.
func (v Value) Format(decimals int) string {
	return strconv.FormatFloat(v.Float64(), 'f', decimals, 64)
}

func (v Value) String() string {
	return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
}

// Decode converts one raw register word into a fixed-point value.
// No IO. No side effects.
func Decode(f Field, raw uint16) (Value, error) {
	rule, ok := Rules[f]
	if !ok {
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownField, uint8(f))
	}

	scale := int32(rule.Scale)

	var n int32
	if rule.Signed {
		n = int32(int16(raw))
	} else {
		n = int32(raw)
	}

	// Go truncates toward zero and the remainder takes the dividend's sign.
	return Value{
		Int:   n / scale,
		Micro: (n % scale) * (MicroPerUnit / scale),
	}, nil
}

// Encode is the inverse of Decode: it packs a value back into a raw word.
// Sub-resolution digits are truncated. Values outside the register range
// are rejected.
func Encode(f Field, v Value) (uint16, error) {
	rule, ok := Rules[f]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownField, uint8(f))
	}

	scale := int64(rule.Scale)
	n := int64(v.Int)*scale + int64(v.Micro)/(MicroPerUnit/scale)

	if rule.Signed {
		if n < math.MinInt16 || n > math.MaxInt16 {
			return 0, fmt.Errorf("register: %s value %s out of range", f, v)
		}
		return uint16(int16(n)), nil
	}

	if n < 0 || n > math.MaxUint16 {
		return 0, fmt.Errorf("register: %s value %s out of range", f, v)
	}
	return uint16(n), nil
}
