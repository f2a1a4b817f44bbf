// internal/register/fields.go
package register

import "fmt"

// Field identifies one QM30VT2 holding register.
// The numeric value is the register's offset from the alias base address.
type Field uint8

const (
	ZVelRMSIn  Field = 0
	ZVelRMSMM  Field = 1
	TempF      Field = 2
	TempC      Field = 3
	XVelRMSIn  Field = 4
	XVelRMSMM  Field = 5
	ZAccPeak   Field = 6
	XAccPeak   Field = 7
	ZVelFreq   Field = 8
	XVelFreq   Field = 9
	ZAccRMS    Field = 10
	XAccRMS    Field = 11
	ZAccKurt   Field = 12
	XAccKurt   Field = 13
	ZAccCF     Field = 14
	XAccCF     Field = 15
	ZVelPeakIn Field = 16
	ZVelPeakMM Field = 17
	XVelPeakIn Field = 18
	XVelPeakMM Field = 19
	ZAccRMSHF  Field = 20
	XAccRMSHF  Field = 21
)

// FieldCount is the number of fields in one register block.
const FieldCount = 22

type fieldInfo struct {
	name  string
	label string
	unit  string
}

var fieldInfos = [FieldCount]fieldInfo{
	ZVelRMSIn:  {"z_vel_rms_in", "Z RMS V", "in/sec"},
	ZVelRMSMM:  {"z_vel_rms_mm", "Z RMS V", "mm/sec"},
	TempF:      {"temp_f", "Temperature", "F"},
	TempC:      {"temp_c", "Temperature", "C"},
	XVelRMSIn:  {"x_vel_rms_in", "X RMS V", "in/sec"},
	XVelRMSMM:  {"x_vel_rms_mm", "X RMS V", "mm/sec"},
	ZAccPeak:   {"z_acc_peak", "Z Peak A", "G"},
	XAccPeak:   {"x_acc_peak", "X Peak A", "G"},
	ZVelFreq:   {"z_vel_peak_freq", "Z Peak F", "Hz"},
	XVelFreq:   {"x_vel_peak_freq", "X Peak F", "Hz"},
	ZAccRMS:    {"z_acc_rms", "Z RMS A", "G"},
	XAccRMS:    {"x_acc_rms", "X RMS A", "G"},
	ZAccKurt:   {"z_acc_kurt", "Z Kurt", ""},
	XAccKurt:   {"x_acc_kurt", "X Kurt", ""},
	ZAccCF:     {"z_acc_cf", "Z CF", ""},
	XAccCF:     {"x_acc_cf", "X CF", ""},
	ZVelPeakIn: {"z_vel_peak_in", "Z Peak Vel", "in/sec"},
	ZVelPeakMM: {"z_vel_peak_mm", "Z Peak Vel", "mm/sec"},
	XVelPeakIn: {"x_vel_peak_in", "X Peak Vel", "in/sec"},
	XVelPeakMM: {"x_vel_peak_mm", "X Peak Vel", "mm/sec"},
	ZAccRMSHF:  {"z_acc_rms_hf", "Z RMS HF A", "G"},
	XAccRMSHF:  {"x_acc_rms_hf", "X RMS HF A", "G"},
}

// Valid reports whether f names a register in the block.
func (f Field) Valid() bool {
	return int(f) < FieldCount
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", uint8(f))
	}
	return fieldInfos[f].name
}

// Label is the short human label shown on the display.
func (f Field) Label() string {
	if !f.Valid() {
		return ""
	}
	return fieldInfos[f].label
}

// Unit is the engineering unit suffix, empty for dimensionless values.
func (f Field) Unit() string {
	if !f.Valid() {
		return ""
	}
	return fieldInfos[f].unit
}

// Fields returns every field in register order.
func Fields() []Field {
	out := make([]Field, FieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}
