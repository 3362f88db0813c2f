package websocket

import (
	"context"
	"time"
)

// Connection defines the interface for WebSocket connections.
// It allows the pumps to be exercised without a network peer.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// HubMetrics receives hub lifecycle events. *OTelMetrics implements it.
type HubMetrics interface {
	RecordConnection(ctx context.Context, clients int)
	RecordDisconnection(ctx context.Context, clients int, duration time.Duration)
	RecordBroadcast(ctx context.Context, messageType string, delivered, dropped int)
}
