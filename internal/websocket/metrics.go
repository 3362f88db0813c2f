package websocket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics records hub activity as OpenTelemetry instruments
type OTelMetrics struct {
	connectionsTotal   metric.Int64Counter
	clients            metric.Int64Gauge
	connectionDuration metric.Float64Histogram
	messagesTotal      metric.Int64Counter
	droppedClients     metric.Int64Counter
}

// NewOTelMetrics creates the WebSocket instruments on meter
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	var (
		m   OTelMetrics
		err error
	)
	if m.connectionsTotal, err = meter.Int64Counter(
		"websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections"),
	); err != nil {
		return nil, err
	}
	if m.clients, err = meter.Int64Gauge(
		"websocket_clients",
		metric.WithDescription("Connected dashboards"),
	); err != nil {
		return nil, err
	}
	if m.connectionDuration, err = meter.Float64Histogram(
		"websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.messagesTotal, err = meter.Int64Counter(
		"websocket_messages_total",
		metric.WithDescription("Messages delivered to dashboards"),
	); err != nil {
		return nil, err
	}
	if m.droppedClients, err = meter.Int64Counter(
		"websocket_dropped_clients_total",
		metric.WithDescription("Clients disconnected for falling behind"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordConnection records a registered client
func (m *OTelMetrics) RecordConnection(ctx context.Context, clients int) {
	m.connectionsTotal.Add(ctx, 1)
	m.clients.Record(ctx, int64(clients))
}

// RecordDisconnection records an unregistered client
func (m *OTelMetrics) RecordDisconnection(ctx context.Context, clients int, duration time.Duration) {
	m.clients.Record(ctx, int64(clients))
	m.connectionDuration.Record(ctx, duration.Seconds())
}

// RecordBroadcast records one fan-out
func (m *OTelMetrics) RecordBroadcast(ctx context.Context, messageType string, delivered, dropped int) {
	attrs := metric.WithAttributes(attribute.String("type", messageType))
	m.messagesTotal.Add(ctx, int64(delivered), attrs)
	if dropped > 0 {
		m.droppedClients.Add(ctx, int64(dropped), attrs)
	}
}
