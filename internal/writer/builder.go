// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/vibration-monitor/internal/config"
	"github.com/tamzrod/vibration-monitor/internal/writer/ingest"
	wmodbus "github.com/tamzrod/vibration-monitor/internal/writer/modbus"
)

// BuildPlan converts the mirror config into a Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(name string, m cfg.MirrorConfig) Plan {
	plan := Plan{
		Name:       name,
		DeviceName: m.DeviceName,
	}

	for _, t := range m.Targets {
		plan.Targets = append(plan.Targets, Target{
			Endpoint:      t.Endpoint,
			UnitID:        t.UnitID,
			DataAddress:   t.Address,
			StatusAddress: t.StatusAddress,
		})
	}
	return plan
}

type closingClient interface {
	EndpointClient
	Close() error
}

// BuildEndpointClients creates one client per unique endpoint.
// The first target naming an endpoint picks its transport.
func BuildEndpointClients(m cfg.MirrorConfig) (map[string]EndpointClient, func() error, error) {
	timeout := time.Duration(m.TimeoutMs) * time.Millisecond

	clients := make(map[string]EndpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for _, t := range m.Targets {
		if _, ok := clients[t.Endpoint]; ok {
			continue
		}

		var (
			c   closingClient
			err error
		)
		switch t.Transport {
		case "ingest":
			c, err = ingest.NewEndpointClient(ingest.Config{Endpoint: t.Endpoint, Timeout: timeout})
		default:
			c, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: t.Endpoint, Timeout: timeout})
		}
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}

		clients[t.Endpoint] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}
