// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/loopholelabs/logging/types"

	cfg "github.com/tamzrod/vibration-monitor/internal/config"
	pmodbus "github.com/tamzrod/vibration-monitor/internal/poller/modbus"
)

// Build constructs a Poller and wires bus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no semantics.
func Build(c *cfg.Config, log types.Logger) (*Poller, error) {
	factory := ClientFactory(c.Sensor)

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			Name:     c.Sensor.Name,
			UnitID:   c.Sensor.UnitID,
			Interval: time.Duration(c.Poll.IntervalMs) * time.Millisecond,
		},
		client,
		factory,
		log,
	)
}

// ClientFactory returns a factory opening the configured transport.
// ONE attempt per call.
func ClientFactory(s cfg.SensorConfig) Factory {
	return func() (Client, error) {
		c, err := pmodbus.New(pmodbus.Config{
			Mode:     s.Mode,
			Address:  s.Address,
			BaudRate: s.BaudRate,
			DataBits: s.DataBits,
			Parity:   s.Parity,
			StopBits: s.StopBits,
			Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
