// internal/display/display.go
package display

import (
	"errors"
	"time"

	"github.com/loopholelabs/logging/types"
)

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultReadyTimeout = 1000 * time.Millisecond

	// MaxTextLen is the longest string the board accepts in one command.
	MaxTextLen = 32
)

// Config holds the gate timing for every queued command.
type Config struct {
	PollInterval time.Duration
	ReadyTimeout time.Duration
}

// Display wraps a Device so that every queued command goes through one Gate.
type Display struct {
	dev  Device
	gate *Gate
	cfg  Config
	log  types.Logger
}

// New creates a Display owning a fresh Gate.
func New(dev Device, cfg Config, clock Clock, log types.Logger) (*Display, error) {
	if dev == nil {
		return nil, errors.New("display: device required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	return &Display{
		dev:  dev,
		gate: NewGate(dev.FreeSlots, clock, log),
		cfg:  cfg,
		log:  log,
	}, nil
}

// Gate exposes the command gate (budget inspection, observers).
func (d *Display) Gate() *Gate {
	return d.gate
}

func (d *Display) dispatch(cmd func() error) error {
	return d.gate.Dispatch(cmd, d.cfg.PollInterval, d.cfg.ReadyTimeout)
}

// ---- queued commands ----

func (d *Display) ClearMemory() error {
	return d.dispatch(d.dev.ClearMemory)
}

func (d *Display) ShowSplash() error {
	return d.dispatch(d.dev.ShowSplash)
}

func (d *Display) UpdateDisplay() error {
	return d.dispatch(d.dev.UpdateDisplay)
}

func (d *Display) UpdateThickness(thickness uint8) error {
	return d.dispatch(func() error { return d.dev.UpdateThickness(thickness) })
}

func (d *Display) UpdateFont(font uint8) error {
	return d.dispatch(func() error { return d.dev.UpdateFont(font) })
}

func (d *Display) ClearTextBuffer() error {
	return d.dispatch(d.dev.ClearTextBuffer)
}

func (d *Display) ClearRectangle(x, y, w, h uint8) error {
	return d.dispatch(func() error { return d.dev.ClearRectangle(x, y, w, h) })
}

func (d *Display) SlideAdd(id uint8, label string) error {
	label = truncate(label)
	return d.dispatch(func() error { return d.dev.SlideAdd(id, label) })
}

func (d *Display) SlideSet(id uint8, value string) error {
	value = truncate(value)
	return d.dispatch(func() error { return d.dev.SlideSet(id, value) })
}

func (d *Display) SummaryTitle(title string) error {
	title = truncate(title)
	return d.dispatch(func() error { return d.dev.SummaryTitle(title) })
}

func (d *Display) Slideshow(interval time.Duration) error {
	ms := uint32(interval.Milliseconds())
	return d.dispatch(func() error { return d.dev.Slideshow(ms) })
}

func (d *Display) StoreText(text string) error {
	text = truncate(text)
	return d.dispatch(func() error { return d.dev.StoreText(text) })
}

func (d *Display) WriteText(x, y, thickness uint8) error {
	return d.dispatch(func() error { return d.dev.WriteText(x, y, thickness) })
}

// ---- immediate accesses (not gated) ----

func (d *Display) Version() (string, error) {
	return d.dev.Version()
}

func (d *Display) Reset() error {
	return d.dev.Reset()
}

func (d *Display) LEDBitmask(mask uint8) error {
	return d.dev.LEDBitmask(mask)
}

func (d *Display) LEDSet(led LED, on bool) error {
	return d.dev.LEDSet(led, on)
}

// Init runs the bring-up sequence: clear memory, log the firmware
// version, light power and battery LEDs, show the splash screen.
func (d *Display) Init() error {
	if err := d.ClearMemory(); err != nil {
		return err
	}

	version, err := d.Version()
	if err != nil {
		return err
	}
	if d.log != nil {
		d.log.Info().Str("version", version).Msg("display firmware")
	}

	if err := d.LEDBitmask(LEDPower.Bit() | LEDBattery.Bit()); err != nil {
		return err
	}

	return d.ShowSplash()
}

func truncate(s string) string {
	if len(s) > MaxTextLen {
		return s[:MaxTextLen]
	}
	return s
}
