// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/vibration-monitor/internal/display"
	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/register"
	"github.com/tamzrod/vibration-monitor/internal/sensor"
	"github.com/tamzrod/vibration-monitor/internal/status"
)

const namespace = "vibration"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	polls       *prometheus.CounterVec
	pollLag     prometheus.Histogram
	lastErrCode prometheus.Gauge
	health      prometheus.Gauge
	measurement *prometheus.GaugeVec

	capacityQueries *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	slotBudget      prometheus.Gauge

	writes *prometheus.CounterVec
}

var _ display.GateObserver = (*Metrics)(nil)

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sensor", Name: "polls_total", Help: "Poll cycles by result"}, []string{"result"}),
		pollLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "sensor", Name: "poll_lag_seconds", Help: "Delay between a poll and its processing",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8)}),
		lastErrCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sensor", Name: "last_error_code", Help: "Last poll error code, 0 when healthy"}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sensor", Name: "health", Help: "Sensor link health code"}),
		measurement: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sensor", Name: "value", Help: "Last decoded value per field"}, []string{"field", "unit"}),

		capacityQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "display", Name: "capacity_queries_total", Help: "Free slot queries by result"}, []string{"result"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "display", Name: "dispatches_total", Help: "Gated commands by result"}, []string{"result"}),
		slotBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "display", Name: "slot_budget", Help: "Locally known free command slots"}),

		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "writer", Name: "writes_total", Help: "Writer deliveries by result"}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		m.polls, m.pollLag, m.lastErrCode, m.health, m.measurement,
		m.capacityQueries, m.dispatches, m.slotBudget, m.writes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObservePoll records one poll result.
func (m *Metrics) ObservePoll(res poller.PollResult, lagSeconds float64) {
	if m == nil {
		return
	}
	m.pollLag.Observe(lagSeconds)
	m.lastErrCode.Set(float64(res.ErrorCode))

	if !res.OK() {
		m.polls.WithLabelValues(display.ResultError).Inc()
		return
	}
	m.polls.WithLabelValues(display.ResultOK).Inc()
	m.ObserveMeasurement(res.Measurement)
}

// ObserveMeasurement sets the per-field gauges.
func (m *Metrics) ObserveMeasurement(meas *sensor.Measurement) {
	if m == nil || meas == nil {
		return
	}
	for _, f := range register.Fields() {
		if v, ok := meas.Get(f); ok {
			m.measurement.WithLabelValues(f.String(), f.Unit()).Set(v.Float64())
		}
	}
}

// ObserveStatus mirrors the tracker snapshot.
func (m *Metrics) ObserveStatus(s status.Snapshot) {
	if m == nil {
		return
	}
	m.health.Set(float64(s.Health))
}

// ObserveWrite counts one writer delivery.
func (m *Metrics) ObserveWrite(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.writes.WithLabelValues(display.ResultError).Inc()
		return
	}
	m.writes.WithLabelValues(display.ResultOK).Inc()
}

// ---- display.GateObserver ----

func (m *Metrics) CapacityQueried(_ uint8, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.capacityQueries.WithLabelValues(display.ResultError).Inc()
		return
	}
	m.capacityQueries.WithLabelValues(display.ResultOK).Inc()
}

func (m *Metrics) Dispatched(result string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result).Inc()
}

func (m *Metrics) SlotBudget(slots int) {
	if m == nil {
		return
	}
	m.slotBudget.Set(float64(slots))
}
