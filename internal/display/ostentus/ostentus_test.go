// internal/display/ostentus/ostentus_test.go
package ostentus

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/tamzrod/vibration-monitor/internal/display"
)

func playback(ops ...i2ctest.IO) *i2ctest.Playback {
	return &i2ctest.Playback{Ops: ops, DontPanic: true}
}

func TestFreeSlots(t *testing.T) {
	bus := playback(i2ctest.IO{Addr: DefaultAddr, W: []byte{regFifoReady}, R: []byte{7}})
	d := New(bus, 0)

	n, err := d.FreeSlots()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), n)
	require.NoError(t, bus.Close())
}

func TestVersionStopsAtNul(t *testing.T) {
	r := make([]byte, versionLen)
	copy(r, "1.4.0")
	bus := playback(i2ctest.IO{Addr: DefaultAddr, W: []byte{regVersion}, R: r})
	d := New(bus, DefaultAddr)

	v, err := d.Version()
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v)
	require.NoError(t, bus.Close())
}

func TestSlideSetEncoding(t *testing.T) {
	bus := playback(i2ctest.IO{
		Addr: DefaultAddr,
		W:    append([]byte{regSlideSet, 3, 6}, "21.5 C"...),
	})
	d := New(bus, 0)

	require.NoError(t, d.SlideSet(3, "21.5 C"))
	require.NoError(t, bus.Close())
}

func TestSlideshowEncoding(t *testing.T) {
	bus := playback(i2ctest.IO{
		Addr: DefaultAddr,
		W:    []byte{regSlideshow, 0x00, 0x00, 0x75, 0x30}, // 30000 ms
	})
	d := New(bus, 0)

	require.NoError(t, d.Slideshow(30000))
	require.NoError(t, bus.Close())
}

func TestLEDSet(t *testing.T) {
	bus := playback(
		i2ctest.IO{Addr: DefaultAddr, W: []byte{regLEDBase + byte(display.LEDInternet), 1}},
		i2ctest.IO{Addr: DefaultAddr, W: []byte{regLEDBase + byte(display.LEDUser), 0}},
	)
	d := New(bus, 0)

	require.NoError(t, d.LEDSet(display.LEDInternet, true))
	require.NoError(t, d.LEDSet(display.LEDUser, false))
	assert.Error(t, d.LEDSet(display.LED(9), true))
	require.NoError(t, bus.Close())
}

func TestTextTooLong(t *testing.T) {
	d := New(playback(), 0)
	err := d.StoreText(strings.Repeat("x", display.MaxTextLen+1))
	assert.ErrorIs(t, err, errTextTooLong)
}

func TestBusErrorIsWrapped(t *testing.T) {
	// No recorded ops: any transaction fails.
	d := New(playback(), 0)

	err := d.ClearMemory()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x00")
}

// fixedClockBus refuses any speed change.
type fixedClockBus struct {
	*i2ctest.Playback
}

func (fixedClockBus) SetSpeed(physic.Frequency) error {
	return errors.New("fixed clock adapter")
}

func TestSetSpeedRefusalIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Zerolog, "ostentus", &buf)
	log.SetLevel(types.DebugLevel)

	setSpeed(playback(), log)
	assert.Empty(t, buf.String(), "accepted speed logs nothing")

	setSpeed(fixedClockBus{playback()}, log)
	assert.Contains(t, buf.String(), "fixed clock adapter")

	// No logger: still no panic.
	setSpeed(fixedClockBus{playback()}, nil)
}
