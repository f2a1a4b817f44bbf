// internal/writer/types.go
package writer

import (
	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/status"
)

// Target is one mirror destination inside an endpoint.
type Target struct {
	Endpoint      string
	UnitID        uint8
	DataAddress   uint16
	StatusAddress *uint16 // nil: no status block on this target
}

// Plan is the fully-built mirror plan for one sensor.
type Plan struct {
	Name       string
	DeviceName string
	Targets    []Target
}

// HasStatus reports whether any target carries a status block.
func (p Plan) HasStatus() bool {
	for _, t := range p.Targets {
		if t.StatusAddress != nil {
			return true
		}
	}
	return false
}

// Writer delivers poll snapshots.
type Writer interface {
	Write(res poller.PollResult) error
}

// StatusWriter is the delivery-only contract for sensor status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// EndpointClient is the exact contract the mirror uses.
// Implemented by writer/modbus and writer/ingest.
type EndpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
