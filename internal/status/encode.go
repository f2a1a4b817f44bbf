// internal/status/encode.go
package status

// Encode converts a Snapshot and device name into a full status block.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, BlockSize)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError

	copy(regs[SlotDeviceNameStart:], EncodeName(deviceName))
	return regs
}

// EncodeName packs up to DeviceNameMaxChars ASCII characters, two per
// register, high byte first. Unused bytes are zero. Non-ASCII bytes are
// replaced with '?'.
func EncodeName(name string) []uint16 {
	regs := make([]uint16, SlotDeviceNameSlots)
	if len(name) > DeviceNameMaxChars {
		name = name[:DeviceNameMaxChars]
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c > 0x7F {
			c = '?'
		}
		if i%2 == 0 {
			regs[i/2] |= uint16(c) << 8
		} else {
			regs[i/2] |= uint16(c)
		}
	}
	return regs
}
