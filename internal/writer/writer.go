// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/register"
	"github.com/tamzrod/vibration-monitor/internal/sensor"
)

// Fanout delivers each result to every writer. One failing writer does
// not stop the others.
type Fanout []Writer

func (f Fanout) Write(res poller.PollResult) error {
	var errs []error
	for _, w := range f {
		if err := w.Write(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type mirrorWriter struct {
	plan    Plan
	clients map[string]EndpointClient
}

// NewMirror writes each measurement, re-encoded as the sensor's register
// block, to every target. Failed polls write nothing; the status block
// reports them.
func NewMirror(plan Plan, clients map[string]EndpointClient) Writer {
	return &mirrorWriter{
		plan:    plan,
		clients: clients,
	}
}

func (w *mirrorWriter) Write(res poller.PollResult) error {
	if !res.OK() {
		return nil
	}

	regs, err := EncodeMeasurement(res.Measurement)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}

	var errs []error
	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Errorf("mirror: missing client for endpoint %s", tgt.Endpoint))
			continue
		}

		if err := cli.WriteRegisters(tgt.UnitID, tgt.DataAddress, regs); err != nil {
			errs = append(errs, fmt.Errorf(
				"mirror: ep=%s unit=%d addr=%d: %w",
				tgt.Endpoint, tgt.UnitID, tgt.DataAddress, err,
			))
		}
	}
	return errors.Join(errs...)
}

// EncodeMeasurement rebuilds the raw register block in frame layout order.
func EncodeMeasurement(m *sensor.Measurement) ([]uint16, error) {
	if m == nil {
		return nil, errors.New("nil measurement")
	}

	regs := make([]uint16, len(sensor.Layout))
	for _, s := range sensor.Layout {
		v, ok := m.Get(s.Field)
		if !ok {
			return nil, fmt.Errorf("field %s missing", s.Field)
		}
		raw, err := register.Encode(s.Field, v)
		if err != nil {
			return nil, err
		}
		regs[s.Offset] = raw
	}
	return regs, nil
}
