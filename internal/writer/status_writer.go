// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/status"
)

// targetStatus tracks what one target's status block is known to hold.
type targetStatus struct {
	tgt      Target
	cli      EndpointClient
	needFull bool
	last     status.Snapshot
}

type deviceStatusWriter struct {
	name    string
	targets []*targetStatus
}

// NewDeviceStatusWriter builds a status writer for every target that has a
// status address. ok is false when no target opted in.
func NewDeviceStatusWriter(plan Plan, clients map[string]EndpointClient) (StatusWriter, bool) {
	sw := &deviceStatusWriter{name: plan.DeviceName}

	for _, t := range plan.Targets {
		if t.StatusAddress == nil {
			continue
		}
		sw.targets = append(sw.targets, &targetStatus{
			tgt:      t,
			cli:      clients[t.Endpoint],
			needFull: true, // full re-assert on first write
		})
	}

	if len(sw.targets) == 0 {
		return nil, false
	}
	return sw, true
}

// WriteStatus delivers a snapshot to every status target.
// On any write failure, the next call re-asserts the full block on that target.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	var errs []error
	for _, ts := range sw.targets {
		if err := ts.write(s, sw.name); err != nil {
			errs = append(errs, fmt.Errorf("status writer: ep=%s unit=%d: %w", ts.tgt.Endpoint, ts.tgt.UnitID, err))
		}
	}
	return errors.Join(errs...)
}

func (ts *targetStatus) write(s status.Snapshot, name string) error {
	if ts.cli == nil {
		return errors.New("missing client")
	}

	base := *ts.tgt.StatusAddress

	// Full block write (identity re-assert)
	if ts.needFull {
		if err := ts.cli.WriteRegisters(ts.tgt.UnitID, base, status.Encode(s, name)); err != nil {
			return fmt.Errorf("full block write failed: %w", err)
		}
		ts.needFull = false
		ts.last = s
		return nil
	}

	slots := []struct {
		slot      uint16
		old, want uint16
	}{
		{status.SlotHealthCode, ts.last.Health, s.Health},
		{status.SlotLastErrorCode, ts.last.LastErrorCode, s.LastErrorCode},
		{status.SlotSecondsInError, ts.last.SecondsInError, s.SecondsInError},
	}

	var errs []error
	for _, sl := range slots {
		if sl.old == sl.want {
			continue
		}
		if err := ts.cli.WriteRegisters(ts.tgt.UnitID, base+sl.slot, []uint16{sl.want}); err != nil {
			errs = append(errs, fmt.Errorf("slot %d: %w", sl.slot, err))
		}
	}

	if len(errs) > 0 {
		// Partial failure: the remote block is now unknown.
		ts.needFull = true
		return errors.Join(errs...)
	}

	ts.last = s
	return nil
}
