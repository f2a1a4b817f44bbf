// internal/status/tracker.go
package status

import "github.com/tamzrod/vibration-monitor/internal/sensor"

// Tracker owns the sensor link Snapshot. It is driven by one loop:
// Observe once per poll result, Tick once per second.
// Both return true when the snapshot changed and should be written.
type Tracker struct {
	snap Snapshot

	staleAfter uint16 // seconds without a result before OK turns stale; 0 disables
	idle       uint16
}

// NewTracker starts in HealthUnknown.
func NewTracker(staleAfterSeconds uint16) *Tracker {
	return &Tracker{
		snap:       Snapshot{Health: HealthUnknown},
		staleAfter: staleAfterSeconds,
	}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Observe folds one poll outcome into the snapshot.
func (t *Tracker) Observe(err error) bool {
	t.idle = 0

	if err == nil {
		changed := false
		if t.snap.Health != HealthOK {
			t.snap.Health = HealthOK
			changed = true
		}
		// Reset on recovery.
		if t.snap.LastErrorCode != 0 {
			t.snap.LastErrorCode = 0
			changed = true
		}
		if t.snap.SecondsInError != 0 {
			t.snap.SecondsInError = 0
			changed = true
		}
		return changed
	}

	changed := false
	if t.snap.Health != HealthError {
		t.snap.Health = HealthError
		changed = true
	}
	if code := sensor.ErrorCode(err); t.snap.LastErrorCode != code {
		t.snap.LastErrorCode = code
		changed = true
	}
	// seconds_in_error only moves on Tick.
	return changed
}

// Tick advances the 1Hz counters.
func (t *Tracker) Tick() bool {
	if t.idle < MaxSecondsInError {
		t.idle++
	}

	if t.snap.Health == HealthOK {
		if t.staleAfter > 0 && t.idle >= t.staleAfter {
			t.snap.Health = HealthStale
			return true
		}
		return false
	}

	if t.snap.SecondsInError < MaxSecondsInError {
		t.snap.SecondsInError++
		return true
	}
	return false
}
