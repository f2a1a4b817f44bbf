// internal/status/constants.go
package status

// Sensor status block layout. These values define what a mirror target
// sees and are not configurable.

// BlockSize is the number of registers in one status block.
const BlockSize = 16

// Register indices inside the block.
const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2

	// 3..7 reserved

	// SlotDeviceNameStart is the first register of the device name.
	// The name always sits at the end of the block.
	SlotDeviceNameStart = 8
	SlotDeviceNameSlots = BlockSize - SlotDeviceNameStart
)

// DeviceNameMaxChars is two ASCII characters per register.
const DeviceNameMaxChars = SlotDeviceNameSlots * 2

// Health codes.
const (
	HealthUnknown uint16 = 0 // boot, nothing polled yet
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
	HealthStale   uint16 = 3 // healthy, but no result for too long
)

// MaxSecondsInError is where the error counter saturates.
const MaxSecondsInError = 0xFFFF
