// internal/status/snapshot.go
package status

// Snapshot is the sensor link state a writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Failing reports whether the sensor link should be flagged to an operator.
func (s Snapshot) Failing() bool {
	return s.Health == HealthError || s.Health == HealthStale
}

// HealthName is the log form of a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "invalid"
	}
}
