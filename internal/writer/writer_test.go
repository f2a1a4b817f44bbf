// internal/writer/writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/register"
	"github.com/tamzrod/vibration-monitor/internal/sensor"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes []writeCall
	fail   error
}

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail != nil {
		return f.fail
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	return nil
}

var _ EndpointClient = (*fakeEndpointClient)(nil)

// ---- fixtures ----

// sampleRaw is one register block in frame order.
func sampleRaw() []uint16 {
	raw := make([]uint16, len(sensor.Layout))
	for i := range raw {
		raw[i] = uint16(100 + i)
	}
	raw[2] = 0xFF6A // TempF -1.50
	return raw
}

type rawBus []uint16

func (b rawBus) ReadHoldingRegisters(uint8, uint16, uint16) ([]uint16, error) {
	return b, nil
}

func sampleResult(t *testing.T) poller.PollResult {
	t.Helper()
	m, err := sensor.ReadFrame(rawBus(sampleRaw()), 1)
	require.NoError(t, err)
	return poller.PollResult{UnitID: "s1", Measurement: m}
}

// ---- tests ----

func TestEncodeMeasurement_RoundTrip(t *testing.T) {
	res := sampleResult(t)

	regs, err := EncodeMeasurement(res.Measurement)
	require.NoError(t, err)
	assert.Equal(t, sampleRaw(), regs)
}

func TestEncodeMeasurement_MissingField(t *testing.T) {
	m := sensor.NewMeasurement(1, map[register.Field]register.Value{
		register.TempC: {Int: 20},
	})
	_, err := EncodeMeasurement(m)
	assert.Error(t, err)
}

func TestMirror_WritesEveryTarget(t *testing.T) {
	ep1 := &fakeEndpointClient{}
	ep2 := &fakeEndpointClient{}

	w := NewMirror(Plan{
		Targets: []Target{
			{Endpoint: "ep1", UnitID: 1, DataAddress: 100},
			{Endpoint: "ep1", UnitID: 2, DataAddress: 0},
			{Endpoint: "ep2", UnitID: 1, DataAddress: 40},
		},
	}, map[string]EndpointClient{"ep1": ep1, "ep2": ep2})

	require.NoError(t, w.Write(sampleResult(t)))

	require.Len(t, ep1.writes, 2)
	require.Len(t, ep2.writes, 1)
	assert.Equal(t, uint16(100), ep1.writes[0].addr)
	assert.Equal(t, uint8(2), ep1.writes[1].unitID)
	assert.Len(t, ep2.writes[0].regs, len(sensor.Layout), "full block")
}

func TestMirror_FailedPollWritesNothing(t *testing.T) {
	ep := &fakeEndpointClient{}
	w := NewMirror(Plan{
		Targets: []Target{{Endpoint: "ep1", UnitID: 1}},
	}, map[string]EndpointClient{"ep1": ep})

	require.NoError(t, w.Write(poller.PollResult{Err: errors.New("timeout")}))
	assert.Empty(t, ep.writes)
}

func TestMirror_MissingClientAndFailureAreJoined(t *testing.T) {
	boom := errors.New("boom")
	w := NewMirror(Plan{
		Targets: []Target{
			{Endpoint: "gone", UnitID: 1},
			{Endpoint: "bad", UnitID: 1},
		},
	}, map[string]EndpointClient{"bad": &fakeEndpointClient{fail: boom}})

	err := w.Write(sampleResult(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "gone")
}

type funcWriter func(poller.PollResult) error

func (f funcWriter) Write(res poller.PollResult) error { return f(res) }

func TestFanout_RunsAllWriters(t *testing.T) {
	e1 := errors.New("first")
	calls := 0

	f := Fanout{
		funcWriter(func(poller.PollResult) error { calls++; return e1 }),
		funcWriter(func(poller.PollResult) error { calls++; return nil }),
	}

	err := f.Write(poller.PollResult{})
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, e1)

	assert.NoError(t, (Fanout{}).Write(poller.PollResult{}), "empty fanout")
}
