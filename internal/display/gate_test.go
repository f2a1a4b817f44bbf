// internal/display/gate_test.go
package display

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake clock ----

type fakeClock struct {
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps++
	c.now = c.now.Add(d)
}

// ---- fake capacity source ----

type fakeCapacity struct {
	replies []uint8
	errs    []error
	calls   int
}

func (f *fakeCapacity) query() (uint8, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return 0, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	if len(f.replies) == 0 {
		return 0, nil
	}
	return f.replies[len(f.replies)-1], nil
}

const (
	testPoll    = 50 * time.Millisecond
	testTimeout = 1000 * time.Millisecond
)

func ok() error { return nil }

// ---- tests ----

func TestGate_StartsEmpty(t *testing.T) {
	g := NewGate((&fakeCapacity{}).query, newFakeClock(), nil)
	assert.Equal(t, 0, g.Slots())
}

func TestGate_QueriesWhenEmptyThenConsumesOne(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{3}}
	g := NewGate(capy.query, newFakeClock(), nil)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))

	assert.Equal(t, 1, capy.calls)
	assert.Equal(t, 2, g.Slots())
}

func TestGate_FastPathSkipsQuery(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{3}}
	g := NewGate(capy.query, newFakeClock(), nil)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))

	assert.Equal(t, 1, capy.calls, "budget > 0 must not query")
	assert.Equal(t, 0, g.Slots())

	// Budget exhausted: next dispatch queries again.
	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	assert.Equal(t, 2, capy.calls)
}

func TestGate_WaitsUntilCapacityAppears(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{0, 0, 0, 2}}
	clock := newFakeClock()
	g := NewGate(capy.query, clock, nil)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))

	assert.Equal(t, 4, capy.calls)
	assert.Equal(t, 3, clock.sleeps)
	assert.Equal(t, 1, g.Slots())
}

func TestGate_TimeoutReturnsBusyWithoutRunningCommand(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{0}}
	clock := newFakeClock()
	g := NewGate(capy.query, clock, nil)

	ran := false
	err := g.Dispatch(func() error { ran = true; return nil }, testPoll, testTimeout)

	require.ErrorIs(t, err, ErrBusy)
	assert.False(t, ran)
	assert.Equal(t, 0, g.Slots(), "budget stays at the last queried value")

	// 1000ms / 50ms: one query at t=0 and one after each of 20 sleeps.
	assert.Equal(t, 21, capy.calls)
	assert.Equal(t, 20, clock.sleeps)
}

func TestGate_ZeroTimeoutQueriesOnce(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{0}}
	clock := newFakeClock()
	g := NewGate(capy.query, clock, nil)

	err := g.Dispatch(ok, testPoll, 0)

	require.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, capy.calls)
	assert.Equal(t, 0, clock.sleeps)
}

func TestGate_CommandFailureLeavesBudget(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{2}}
	g := NewGate(capy.query, newFakeClock(), nil)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	require.Equal(t, 1, g.Slots())

	boom := errors.New("i2c nack")
	err := g.Dispatch(func() error { return boom }, testPoll, testTimeout)

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, g.Slots())
}

func TestGate_CommandFailureAfterQueryKeepsQueriedValue(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{4}}
	g := NewGate(capy.query, newFakeClock(), nil)

	err := g.Dispatch(func() error { return errors.New("fail") }, testPoll, testTimeout)

	require.Error(t, err)
	assert.Equal(t, 4, g.Slots())
}

func TestGate_QueryErrorsRetriedThenBusy(t *testing.T) {
	qerr := errors.New("bus error")
	capy := &fakeCapacity{errs: []error{qerr, qerr, qerr}}
	clock := newFakeClock()
	g := NewGate(capy.query, clock, nil)

	err := g.Dispatch(ok, testPoll, 100*time.Millisecond)

	require.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, qerr)
	assert.Equal(t, 3, capy.calls)
	assert.Equal(t, 0, g.Slots())
}

func TestGate_QueryErrorThenCapacity(t *testing.T) {
	capy := &fakeCapacity{
		errs:    []error{errors.New("bus error")},
		replies: []uint8{0, 5},
	}
	g := NewGate(capy.query, newFakeClock(), nil)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	assert.Equal(t, 2, capy.calls)
	assert.Equal(t, 4, g.Slots())
}

func TestGate_BudgetNeverNegative(t *testing.T) {
	// Mixed device replies and command outcomes.
	capy := &fakeCapacity{replies: []uint8{1, 0, 0, 2, 0, 1, 3, 0, 0, 0}}
	g := NewGate(capy.query, newFakeClock(), nil)

	outcomes := []error{nil, errors.New("x"), nil, nil, nil, errors.New("y"), nil, nil, nil, nil, nil, nil}
	for i, out := range outcomes {
		out := out
		_ = g.Dispatch(func() error { return out }, testPoll, 2*testPoll)
		require.GreaterOrEqual(t, g.Slots(), 0, "after call %d", i)
	}
}

// ---- observer ----

type recordingObserver struct {
	queries int
	results []string
	budget  int
}

func (r *recordingObserver) CapacityQueried(uint8, error) { r.queries++ }
func (r *recordingObserver) Dispatched(result string)     { r.results = append(r.results, result) }
func (r *recordingObserver) SlotBudget(slots int)         { r.budget = slots }

func TestGate_ObserverSeesResults(t *testing.T) {
	capy := &fakeCapacity{replies: []uint8{1, 0}}
	g := NewGate(capy.query, newFakeClock(), nil)
	obs := &recordingObserver{}
	g.SetObserver(obs)

	require.NoError(t, g.Dispatch(ok, testPoll, testTimeout))
	require.ErrorIs(t, g.Dispatch(ok, testPoll, 0), ErrBusy)

	assert.Equal(t, []string{ResultOK, ResultBusy}, obs.results)
	assert.Equal(t, 2, obs.queries)
	assert.Equal(t, 0, obs.budget)
}
