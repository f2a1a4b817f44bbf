// internal/display/gate.go
package display

import (
	"errors"
	"fmt"
	"time"

	"github.com/loopholelabs/logging/types"
)

// ErrBusy means no command slot became available before the timeout.
// It is not fatal: the caller may try again on the next cycle.
var ErrBusy = errors.New("display: busy")

// Clock is the time source used by the capacity wait.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// CapacityFunc asks the device how many command slots are free.
type CapacityFunc func() (uint8, error)

// GateObserver receives gate events. Implementations must be cheap.
type GateObserver interface {
	CapacityQueried(slots uint8, err error)
	Dispatched(result string)
	SlotBudget(slots int)
}

// Dispatch results reported to the observer.
const (
	ResultOK    = "ok"
	ResultBusy  = "busy"
	ResultError = "error"
)

// Gate holds the last known number of free command slots on the device.
//
// The count is a lower bound: it is refreshed only by a capacity query and
// decremented once per successful dispatch. Zero means "query first", not
// "device full". A Gate is driven by a single loop and is not safe for
// concurrent use.
type Gate struct {
	slots    int
	query    CapacityFunc
	clock    Clock
	log      types.Logger
	observer GateObserver
}

// NewGate creates a gate with an empty budget.
func NewGate(query CapacityFunc, clock Clock, log types.Logger) *Gate {
	if clock == nil {
		clock = SystemClock
	}
	return &Gate{
		query: query,
		clock: clock,
		log:   log,
	}
}

// SetObserver attaches an observer. nil detaches.
func (g *Gate) SetObserver(o GateObserver) {
	g.observer = o
}

// Slots returns the current local budget.
func (g *Gate) Slots() int {
	return g.slots
}

// Dispatch runs cmd once a slot is believed free.
//
// With a non-zero budget cmd runs immediately. Otherwise the device is
// queried every pollInterval until it reports capacity or timeout elapses,
// in which case ErrBusy is returned and cmd is not run. A successful cmd
// consumes one slot; a failed cmd consumes none and its error is returned.
func (g *Gate) Dispatch(cmd func() error, pollInterval, timeout time.Duration) error {
	if err := g.wait(pollInterval, timeout); err != nil {
		g.dispatched(ResultBusy)
		return err
	}

	if err := cmd(); err != nil {
		g.dispatched(ResultError)
		return err
	}

	g.slots--
	g.dispatched(ResultOK)
	return nil
}

func (g *Gate) wait(pollInterval, timeout time.Duration) error {
	if g.slots > 0 {
		return nil
	}

	deadline := g.clock.Now().Add(timeout)
	var lastErr error

	for {
		n, err := g.query()
		if g.observer != nil {
			g.observer.CapacityQueried(n, err)
		}

		if err != nil {
			lastErr = err
			if g.log != nil {
				g.log.Error().Err(err).Msg("display capacity query failed")
			}
		} else {
			lastErr = nil
			g.slots = int(n)
			if g.observer != nil {
				g.observer.SlotBudget(g.slots)
			}
			if g.slots > 0 {
				return nil
			}
		}

		if !g.clock.Now().Before(deadline) {
			break
		}
		g.clock.Sleep(pollInterval)
	}

	if g.log != nil {
		g.log.Warn().
			Int64("timeout_ms", timeout.Milliseconds()).
			Msg("display has no free command slot")
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrBusy, lastErr)
	}
	return ErrBusy
}

func (g *Gate) dispatched(result string) {
	if g.observer != nil {
		g.observer.Dispatched(result)
		g.observer.SlotBudget(g.slots)
	}
}
