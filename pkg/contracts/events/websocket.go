// Package events contains event contract definitions for WebSocket communication
// between the floorcheck server and open dashboards.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Dataset messages
	MessageTypeDatasetReloaded MessageType = "dataset:reloaded"

	// Alert messages
	MessageTypeAlertSent MessageType = "alert:sent"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetReloaded tells dashboards the checklist file changed and views should refresh
type DatasetReloaded struct {
	Source       string    `json:"source"`
	Rows         int       `json:"rows"`
	InvalidDates int       `json:"invalid_dates"`
	ModTime      time.Time `json:"mod_time"`
}

// AlertSent tells dashboards an alert went out
type AlertSent struct {
	CriticalFloor string `json:"critical_floor"`
	Recipients    int    `json:"recipients"`
	SentBy        string `json:"sent_by"`
}

// ErrorPayload is the data of an error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
