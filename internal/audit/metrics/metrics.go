// Package metrics provides observability for the audit module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks event ingestion and live-stream delivery. It satisfies the
// broker's metrics sink interface.
type Metrics struct {
	EventsIngested     prometheus.Counter
	LiveListeners      prometheus.Gauge
	StreamDeliveries   prometheus.Counter
	StreamDropListener prometheus.Counter
}

// New creates a Metrics instance with all audit module metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_events_ingested_total",
			Help: "Total number of audit events persisted via the webhook",
		}),
		LiveListeners: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "auditcenter_stream_listeners",
			Help: "Number of currently connected event-stream listeners",
		}),
		StreamDeliveries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_stream_deliveries_total",
			Help: "Total number of events delivered to stream listeners",
		}),
		StreamDropListener: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditcenter_stream_listeners_dropped_total",
			Help: "Total number of listeners dropped after a failed delivery",
		}),
	}
}

// IncrementEventsIngested records a persisted webhook event.
func (m *Metrics) IncrementEventsIngested() {
	m.EventsIngested.Inc()
}

// ListenerCount records the current registry size.
func (m *Metrics) ListenerCount(n int) {
	m.LiveListeners.Set(float64(n))
}

// DeliverySucceeded records one event delivered to one listener.
func (m *Metrics) DeliverySucceeded() {
	m.StreamDeliveries.Inc()
}

// DeliveryFailed records a listener dropped after a failed send.
func (m *Metrics) DeliveryFailed() {
	m.StreamDropListener.Inc()
}
