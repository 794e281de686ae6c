package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the coordinator's externally observable outcomes. The
// unmatched counter exists so no-op status updates stay visible instead of
// disappearing silently.
type Metrics struct {
	ordersCreated     prometheus.Counter
	dispatchEvents    prometheus.Counter
	batchesCommitted  prometheus.Counter
	batchesFailed     prometheus.Counter
	unmatchedCommands prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "manager_orders_created_total",
			Help: "Total number of orders persisted through bulk creation",
		}),
		dispatchEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "manager_dispatch_events_total",
			Help: "Total number of order_dispatched events published to the kitchen",
		}),
		batchesCommitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "manager_status_batches_committed_total",
			Help: "Total number of status-change batches committed and acknowledged",
		}),
		batchesFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "manager_status_batches_failed_total",
			Help: "Total number of status-change batches rolled back and negatively acknowledged",
		}),
		unmatchedCommands: registerCounter(registerer, prometheus.CounterOpts{
			Name: "manager_status_commands_unmatched_total",
			Help: "Total number of status-update commands that matched no order row",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Counter)
		}
	}
	return c
}

func (m *Metrics) OrdersCreated(n int)     { m.ordersCreated.Add(float64(n)) }
func (m *Metrics) DispatchEventPublished() { m.dispatchEvents.Inc() }
func (m *Metrics) StatusBatchCommitted()   { m.batchesCommitted.Inc() }
func (m *Metrics) StatusBatchFailed()      { m.batchesFailed.Inc() }
func (m *Metrics) UnmatchedCommands(n int) { m.unmatchedCommands.Add(float64(n)) }
