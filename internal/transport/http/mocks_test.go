package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"floorcheck/internal/auth"
	"floorcheck/internal/exporter"
	"floorcheck/pkg/contracts/domain"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dates(ctx context.Context) (domain.DatesView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DatesView), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context) (domain.SummaryView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SummaryView), args.Error(1)
}

func (m *MockDashboardService) Floors(ctx context.Context, date1, date2, floor string) (domain.FloorsView, error) {
	args := m.Called(ctx, date1, date2, floor)
	return args.Get(0).(domain.FloorsView), args.Error(1)
}

func (m *MockDashboardService) Positions(ctx context.Context, date, position string) (domain.PositionsView, error) {
	args := m.Called(ctx, date, position)
	return args.Get(0).(domain.PositionsView), args.Error(1)
}

func (m *MockDashboardService) Observations(ctx context.Context, date1, date2, observation string) (domain.ObservationsView, error) {
	args := m.Called(ctx, date1, date2, observation)
	return args.Get(0).(domain.ObservationsView), args.Error(1)
}

func (m *MockDashboardService) Table(ctx context.Context, page, pageSize int) (domain.TableView, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).(domain.TableView), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, out io.Writer, exp exporter.Exporter) error {
	args := m.Called(ctx, out, exp)
	if body, ok := args.Get(0).(string); ok && body != "" {
		_, _ = io.WriteString(out, body)
	}
	return args.Error(1)
}

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Recipients(ctx context.Context) domain.RecipientsView {
	return m.Called(ctx).Get(0).(domain.RecipientsView)
}

func (m *MockAlertService) AddRecipient(ctx context.Context, addr string) (domain.RecipientsView, error) {
	args := m.Called(ctx, addr)
	return args.Get(0).(domain.RecipientsView), args.Error(1)
}

func (m *MockAlertService) ResetRecipients(ctx context.Context) (domain.RecipientsView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RecipientsView), args.Error(1)
}

func (m *MockAlertService) Send(ctx context.Context, floor string, by auth.Principal) (domain.AlertResult, error) {
	args := m.Called(ctx, floor, by)
	return args.Get(0).(domain.AlertResult), args.Error(1)
}

type MockLoginRecorder struct {
	mock.Mock
}

func (m *MockLoginRecorder) RecordLogin(ctx context.Context, role string, success bool) {
	m.Called(ctx, role, success)
}
