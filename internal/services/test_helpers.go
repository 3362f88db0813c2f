package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"floorcheck/internal/notify"
)

// MockWebSocketHub is a mock for WebSocketHub interface
type MockWebSocketHub struct {
	mock.Mock
}

func (m *MockWebSocketHub) Broadcast(messageType string, data interface{}) {
	m.Called(messageType, data)
}

func (m *MockWebSocketHub) ClientCount() int {
	args := m.Called()
	return args.Int(0)
}

// MockMailer is a mock for notify.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg notify.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockAlertRecorder is a mock for AlertRecorder
type MockAlertRecorder struct {
	mock.Mock
}

func (m *MockAlertRecorder) RecordAlert(ctx context.Context, recipients int, err error) {
	m.Called(ctx, recipients, err)
}
