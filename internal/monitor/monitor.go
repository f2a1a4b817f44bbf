// internal/monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/tamzrod/vibration-monitor/internal/display"
	"github.com/tamzrod/vibration-monitor/internal/metrics"
	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/status"
	"github.com/tamzrod/vibration-monitor/internal/writer"
)

// Connectivity is anything that can report an upstream link, such as the
// telemetry broker.
type Connectivity interface {
	Connected() bool
}

// Options wires the monitor. Every collaborator except Tracker is optional.
type Options struct {
	Name      string
	Writer    writer.Writer
	Status    writer.StatusWriter
	Tracker   *status.Tracker
	Display   *display.Display
	Title     string
	Slideshow time.Duration
	Broker    Connectivity
	Metrics   *metrics.Metrics
	Log       types.Logger
	Now       func() time.Time
}

type ledState struct {
	known bool
	on    bool
}

// Monitor is the single application loop. It owns the tracker and drives
// the display; nothing else touches either.
type Monitor struct {
	opts Options
	leds map[display.LED]*ledState
}

func New(opts Options) (*Monitor, error) {
	if opts.Tracker == nil {
		return nil, errors.New("monitor: tracker required")
	}
	if opts.Name == "" {
		return nil, errors.New("monitor: name required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Monitor{
		opts: opts,
		leds: map[display.LED]*ledState{
			display.LEDUser:     {},
			display.LEDInternet: {},
		},
	}, nil
}

// Start brings up the display and asserts the initial status block.
// Display failures are logged, never fatal.
func (m *Monitor) Start() {
	if d := m.opts.Display; d != nil {
		if err := m.setupDisplay(d); err != nil {
			m.logError(err, "display setup failed")
		}
	}
	m.writeStatus()
	m.updateLEDs()
}

func (m *Monitor) setupDisplay(d *display.Display) error {
	if err := d.Init(); err != nil {
		return err
	}
	// Init leaves only power and battery lit.
	for _, s := range m.leds {
		*s = ledState{known: true}
	}

	if err := d.SetupSlides(Slides(), m.opts.Title, m.opts.Slideshow); err != nil {
		return err
	}

	version, err := d.Version()
	if err != nil {
		return err
	}
	return d.SlideSet(FirmwareSlideID, version)
}

// Run consumes poll results until ctx is done or in is closed.
// Status seconds advance on a 1Hz ticker.
func (m *Monitor) Run(ctx context.Context, in <-chan poller.PollResult) error {
	m.Start()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case res, ok := <-in:
			if !ok {
				return nil
			}
			m.HandleResult(res)

		case <-secTicker.C:
			m.HandleTick()
		}
	}
}

// HandleResult processes one poll result.
func (m *Monitor) HandleResult(res poller.PollResult) {
	log := m.opts.Log

	m.opts.Metrics.ObservePoll(res, m.opts.Now().Sub(res.At).Seconds())

	if res.OK() {
		if log != nil {
			log.Info().Str("sensor", m.opts.Name).Msg("poll ok")
		}
		res.Measurement.LogFields(log)
	} else if log != nil {
		log.Error().
			Err(res.Err).
			Str("sensor", m.opts.Name).
			Uint16("code", res.ErrorCode).
			Msg("poll failed")
	}

	// --- data delivery ---
	if m.opts.Writer != nil {
		err := m.opts.Writer.Write(res)
		m.opts.Metrics.ObserveWrite(err)
		if err != nil {
			m.logError(err, "writer error")
		}
	}

	// --- status ---
	if m.opts.Tracker.Observe(res.Err) {
		m.writeStatus()
	}

	// --- display ---
	if res.OK() && m.opts.Display != nil {
		values, order := SlideValues(res.Measurement)
		if err := m.opts.Display.SetSlides(values, order); err != nil {
			m.logDisplayError(err)
		}
	}

	m.updateLEDs()
}

// HandleTick advances the 1Hz status counters.
func (m *Monitor) HandleTick() {
	if m.opts.Tracker.Tick() {
		m.writeStatus()
	}
	m.updateLEDs()
}

func (m *Monitor) writeStatus() {
	snap := m.opts.Tracker.Snapshot()
	m.opts.Metrics.ObserveStatus(snap)

	if m.opts.Status == nil {
		return
	}
	if err := m.opts.Status.WriteStatus(snap); err != nil {
		m.logError(err, "status write failed")
	}
}

func (m *Monitor) updateLEDs() {
	if m.opts.Display == nil {
		return
	}

	m.setLED(display.LEDUser, m.opts.Tracker.Snapshot().Failing())
	if m.opts.Broker != nil {
		m.setLED(display.LEDInternet, m.opts.Broker.Connected())
	}
}

// setLED only talks to the device on change.
func (m *Monitor) setLED(led display.LED, on bool) {
	s := m.leds[led]
	if s.known && s.on == on {
		return
	}
	if err := m.opts.Display.LEDSet(led, on); err != nil {
		s.known = false
		m.logError(err, "led update failed")
		return
	}
	*s = ledState{known: true, on: on}
}

func (m *Monitor) logDisplayError(err error) {
	log := m.opts.Log
	if log == nil {
		return
	}
	if errors.Is(err, display.ErrBusy) {
		log.Warn().Err(err).Msg("display busy, slides skipped this cycle")
		return
	}
	log.Error().Err(err).Msg("display update failed")
}

func (m *Monitor) logError(err error, msg string) {
	if m.opts.Log == nil {
		return
	}
	m.opts.Log.Error().Err(err).Str("sensor", m.opts.Name).Msg(msg)
}
