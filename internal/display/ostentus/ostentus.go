// internal/display/ostentus/ostentus.go

// Package ostentus drives the Ostentus e-paper companion board over I2C.
// It only encodes commands; queuing and capacity are handled by
// display.Gate.
package ostentus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/loopholelabs/logging/types"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/tamzrod/vibration-monitor/internal/display"
)

// DefaultAddr is the board's 7-bit I2C address.
const DefaultAddr uint16 = 0x12

const maxClockFreq = 100 * physic.KiloHertz

// Command registers.
const (
	regClearMemory     byte = 0x00
	regUpdateDisplay   byte = 0x01
	regThickness       byte = 0x02
	regFont            byte = 0x03
	regClearTextBuffer byte = 0x04
	regClearRectangle  byte = 0x05
	regSplash          byte = 0x06
	regStoreText       byte = 0x07
	regWriteText       byte = 0x08
	regSlideAdd        byte = 0x09
	regSlideSet        byte = 0x0A
	regSummaryTitle    byte = 0x0B
	regSlideshow       byte = 0x0C
	regVersion         byte = 0x0D
	regFifoReady       byte = 0x0E
	regReset           byte = 0x0F
	regLEDBitmask      byte = 0x10
	regLEDBase         byte = 0x11 // + display.LED
)

const versionLen = 32

var errTextTooLong = errors.New("ostentus: text too long")

// Device is one board on an I2C bus. It implements display.Device.
type Device struct {
	dev *i2c.Dev
	bus i2c.BusCloser // nil when the bus is owned by the caller
}

var _ display.Device = (*Device)(nil)

// New binds a board on an already opened bus.
func New(bus i2c.Bus, addr uint16) *Device {
	if addr == 0 {
		addr = DefaultAddr
	}
	return &Device{dev: &i2c.Dev{Addr: addr, Bus: bus}}
}

// Open initializes the host drivers and opens the named bus ("" = first bus).
func Open(busName string, addr uint16, log types.Logger) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("ostentus: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("ostentus: open i2c bus %q: %w", busName, err)
	}

	setSpeed(bus, log)

	d := New(bus, addr)
	d.bus = bus
	return d, nil
}

// setSpeed asks for 100kHz. Many adapters only run at a fixed clock, so a
// refusal keeps the adapter default.
func setSpeed(bus i2c.Bus, log types.Logger) {
	err := bus.SetSpeed(maxClockFreq)
	if err != nil && log != nil {
		log.Debug().
			Err(err).
			Str("bus", bus.String()).
			Msg("i2c adapter kept its default speed")
	}
}

// Close releases the bus if Open created it.
func (d *Device) Close() error {
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

// ---- reads ----

func (d *Device) FreeSlots() (uint8, error) {
	var r [1]byte
	if err := d.dev.Tx([]byte{regFifoReady}, r[:]); err != nil {
		return 0, fmt.Errorf("ostentus: fifo ready: %w", err)
	}
	return r[0], nil
}

func (d *Device) Version() (string, error) {
	buf := make([]byte, versionLen)
	if err := d.dev.Tx([]byte{regVersion}, buf); err != nil {
		return "", fmt.Errorf("ostentus: version: %w", err)
	}
	// NUL-terminated
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

// ---- queued commands ----

func (d *Device) ClearMemory() error     { return d.write(regClearMemory) }
func (d *Device) ShowSplash() error      { return d.write(regSplash) }
func (d *Device) UpdateDisplay() error   { return d.write(regUpdateDisplay) }
func (d *Device) ClearTextBuffer() error { return d.write(regClearTextBuffer) }

func (d *Device) UpdateThickness(thickness uint8) error {
	return d.write(regThickness, thickness)
}

func (d *Device) UpdateFont(font uint8) error {
	return d.write(regFont, font)
}

func (d *Device) ClearRectangle(x, y, w, h uint8) error {
	return d.write(regClearRectangle, x, y, w, h)
}

func (d *Device) SlideAdd(id uint8, label string) error {
	return d.writeText(regSlideAdd, []byte{id}, label)
}

func (d *Device) SlideSet(id uint8, value string) error {
	return d.writeText(regSlideSet, []byte{id}, value)
}

func (d *Device) SummaryTitle(title string) error {
	return d.writeText(regSummaryTitle, nil, title)
}

func (d *Device) Slideshow(intervalMs uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], intervalMs)
	return d.write(regSlideshow, b[:]...)
}

func (d *Device) StoreText(text string) error {
	return d.writeText(regStoreText, nil, text)
}

func (d *Device) WriteText(x, y, thickness uint8) error {
	return d.write(regWriteText, x, y, thickness)
}

// ---- immediate ----

func (d *Device) Reset() error {
	return d.write(regReset)
}

func (d *Device) LEDBitmask(mask uint8) error {
	return d.write(regLEDBitmask, mask)
}

func (d *Device) LEDSet(led display.LED, on bool) error {
	if led > display.LEDPower {
		return fmt.Errorf("ostentus: unknown led %d", led)
	}
	var state byte
	if on {
		state = 1
	}
	return d.write(regLEDBase+byte(led), state)
}

// ---- helpers ----

func (d *Device) write(reg byte, args ...byte) error {
	w := make([]byte, 0, 1+len(args))
	w = append(w, reg)
	w = append(w, args...)
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("ostentus: write reg 0x%02x: %w", reg, err)
	}
	return nil
}

// writeText sends reg, prefix, length byte, text.
func (d *Device) writeText(reg byte, prefix []byte, text string) error {
	if len(text) > display.MaxTextLen {
		return fmt.Errorf("%w: %d > %d", errTextTooLong, len(text), display.MaxTextLen)
	}
	args := make([]byte, 0, len(prefix)+1+len(text))
	args = append(args, prefix...)
	args = append(args, byte(len(text)))
	args = append(args, text...)
	return d.write(reg, args...)
}
