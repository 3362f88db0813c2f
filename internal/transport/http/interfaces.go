package http

import (
	"context"
	"io"
	"time"

	"floorcheck/internal/auth"
	"floorcheck/internal/exporter"
	"floorcheck/pkg/contracts/domain"
)

// DashboardServiceInterface is what the dashboard routes need from
// services.DashboardService
type DashboardServiceInterface interface {
	Dates(ctx context.Context) (domain.DatesView, error)
	Summary(ctx context.Context) (domain.SummaryView, error)
	Floors(ctx context.Context, date1, date2, floor string) (domain.FloorsView, error)
	Positions(ctx context.Context, date, position string) (domain.PositionsView, error)
	Observations(ctx context.Context, date1, date2, observation string) (domain.ObservationsView, error)
	Table(ctx context.Context, page, pageSize int) (domain.TableView, error)
	Export(ctx context.Context, out io.Writer, exp exporter.Exporter) error
}

// AlertServiceInterface is what the alert routes need from services.AlertService
type AlertServiceInterface interface {
	Recipients(ctx context.Context) domain.RecipientsView
	AddRecipient(ctx context.Context, addr string) (domain.RecipientsView, error)
	ResetRecipients(ctx context.Context) (domain.RecipientsView, error)
	Send(ctx context.Context, floor string, by auth.Principal) (domain.AlertResult, error)
}

// SessionManager is the session store used by the auth routes
type SessionManager interface {
	Create(p auth.Principal) auth.Session
	Get(token string) (auth.Session, error)
	Delete(token string)
	TTL() time.Duration
}

// LoginRecorder records login outcomes. *infrastructure.BusinessMetrics satisfies it.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, role string, success bool)
}
