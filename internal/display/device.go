// internal/display/device.go
package display

// Device is the raw command surface of the display board.
// Every call is one device transaction; queuing is the caller's concern.
type Device interface {
	// FreeSlots reports how many commands the device can still accept.
	FreeSlots() (uint8, error)

	// Queued commands.
	ClearMemory() error
	ShowSplash() error
	UpdateDisplay() error
	UpdateThickness(thickness uint8) error
	UpdateFont(font uint8) error
	ClearTextBuffer() error
	ClearRectangle(x, y, w, h uint8) error
	SlideAdd(id uint8, label string) error
	SlideSet(id uint8, value string) error
	SummaryTitle(title string) error
	Slideshow(intervalMs uint32) error
	StoreText(text string) error
	WriteText(x, y, thickness uint8) error

	// Immediate register accesses, not queued.
	Version() (string, error)
	Reset() error
	LEDBitmask(mask uint8) error
	LEDSet(led LED, on bool) error
}

// LED identifies one indicator on the board.
type LED uint8

const (
	LEDUser     LED = 0
	LEDGolioth  LED = 1
	LEDInternet LED = 2
	LEDBattery  LED = 3
	LEDPower    LED = 4
)

// Bit returns the LED's position in an LED bitmask.
func (l LED) Bit() uint8 {
	return 1 << uint8(l)
}

func (l LED) String() string {
	switch l {
	case LEDUser:
		return "user"
	case LEDGolioth:
		return "golioth"
	case LEDInternet:
		return "internet"
	case LEDBattery:
		return "battery"
	case LEDPower:
		return "power"
	default:
		return "unknown"
	}
}
