// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/vibration-monitor/internal/sensor"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	// Measurement is complete or nil. Never partial.
	Measurement *sensor.Measurement

	// ErrorCode is 0 on success, the device/transport code otherwise.
	ErrorCode uint16

	Err error // non-nil means the poll cycle failed
}

// OK reports whether the cycle produced a measurement.
func (r PollResult) OK() bool {
	return r.Err == nil && r.Measurement != nil
}
