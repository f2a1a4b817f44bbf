// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/tamzrod/vibration-monitor/internal/sensor"
	"github.com/tamzrod/vibration-monitor/internal/syncutil"
)

// ErrClosed is returned in results produced after Close.
var ErrClosed = errors.New("poller: closed")

// Client is the bus connection the poller reads through.
type Client interface {
	sensor.Bus
	Close() error
}

// Factory opens a new client. One attempt per call.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string // used in logs and results
	UnitID   uint8  // sensor address on the bus
	Interval time.Duration
}

// Poller is a dumb, clock-driven frame reader.
// mu guards client for the whole cycle, so Close waits for an in-flight
// read to return before releasing the connection.
type Poller struct {
	cfg     Config
	factory Factory
	log     types.Logger
	now     func() time.Time

	mu     syncutil.Mutex
	client Client
	closed bool
}

// New creates a poller with immutable config. client may be nil when a
// factory is given; the first cycle then opens it.
func New(cfg Config, client Client, factory Factory, log types.Logger) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		factory: factory,
		log:     log,
		now:     time.Now,
	}, nil
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration {
	return p.cfg.Interval
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle and carries no measurement.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.Name,
		At:     p.now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		res.Err = ErrClosed
		res.ErrorCode = sensor.GenericErrorCode
		return res
	}

	if p.client == nil {
		c, err := p.factory()
		if err != nil {
			res.Err = err
			res.ErrorCode = sensor.ErrorCode(err)
			return res
		}
		p.client = c
	}

	m, err := sensor.ReadFrame(p.client, p.cfg.UnitID)
	if err != nil {
		res.Err = err
		res.ErrorCode = sensor.ErrorCode(err)
		p.dropClient(err)
		return res
	}

	res.Measurement = m
	return res
}

// dropClient discards the connection after a link-level failure so the
// factory reopens it on a later tick. A device exception or decode error
// proves the link is alive and keeps it.
func (p *Poller) dropClient(err error) {
	if p.factory == nil || p.client == nil {
		return
	}
	var te *sensor.TransportError
	if !errors.As(err, &te) {
		return
	}
	var coded interface{ Code() uint16 }
	if errors.As(te.Err, &coded) {
		return
	}
	if cerr := p.client.Close(); cerr != nil && p.log != nil {
		p.log.Warn().Err(cerr).Str("sensor", p.cfg.Name).Msg("closing bus client")
	}
	p.client = nil
}

// Close releases the current client, if any, and stops later cycles from
// reopening it. It blocks until an in-flight read returns.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
