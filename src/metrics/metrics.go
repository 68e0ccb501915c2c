// Package metrics – Prometheus metrics for observability.
//
// Exposes the primary counters the bridge updates during operation:
//   - bridge_connected_clients            – Currently connected WebSocket clients (gauge)
//   - bridge_messages_broadcast_total{type} – Messages fanned out, by message type
//   - bridge_messages_dropped_total       – Messages dropped on a full broadcast queue
//   - bridge_active_subscriptions         – Live broker subscriptions (gauge)
//   - bridge_pending_resolutions          – In-flight front-month resolutions (gauge)
//   - bridge_broker_errors_total{severity} – Broker error callbacks by severity
//   - bridge_orders_total{action}         – Orders submitted, by side
//   - bridge_commands_total{command}      – Client commands received, by name
//
// These are registered in init() and served by the gin route /metrics
// (Prometheus text exposition format).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxConnectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_connected_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	mtxBroadcast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_messages_broadcast_total",
			Help: "Messages fanned out to clients",
		},
		[]string{"type"},
	)

	mtxDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_messages_dropped_total",
			Help: "Messages dropped because the broadcast queue was full",
		},
	)

	mtxActiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_active_subscriptions",
			Help: "Live broker data subscriptions",
		},
	)

	mtxPendingResolutions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_pending_resolutions",
			Help: "In-flight front-month futures resolutions",
		},
	)

	mtxBrokerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_broker_errors_total",
			Help: "Broker error callbacks by severity",
		},
		[]string{"severity"}, // error|warning|info
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_orders_total",
			Help: "Orders submitted to the broker",
		},
		[]string{"action"}, // BUY|SELL
	)

	mtxCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_commands_total",
			Help: "Client commands received, by command name",
		},
		[]string{"command"},
	)
)

func init() {
	prometheus.MustRegister(mtxConnectedClients, mtxBroadcast, mtxDropped)
	prometheus.MustRegister(mtxActiveSubscriptions, mtxPendingResolutions)
	prometheus.MustRegister(mtxBrokerErrors, mtxOrders, mtxCommands)
}

// Helper setters used across the bridge packages.
func SetConnectedClients(n int)      { mtxConnectedClients.Set(float64(n)) }
func IncBroadcast(msgType string)    { mtxBroadcast.WithLabelValues(msgType).Inc() }
func IncDropped()                    { mtxDropped.Inc() }
func SetActiveSubscriptions(n int)   { mtxActiveSubscriptions.Set(float64(n)) }
func SetPendingResolutions(n int)    { mtxPendingResolutions.Set(float64(n)) }
func IncBrokerError(severity string) { mtxBrokerErrors.WithLabelValues(severity).Inc() }
func IncOrder(action string)         { mtxOrders.WithLabelValues(action).Inc() }
func IncCommand(command string)      { mtxCommands.WithLabelValues(command).Inc() }
