// Package services implements the business logic of the floorcheck dashboard.
// It sits between the HTTP handlers and the dataset, recipients and mail
// packages so that page rules live in one place and can be tested without
// a server.
//
// # Available Services
//
//	- DashboardService: dates, summary KPIs, floor comparison, position and
//	  observation rankings, the paginated raw table and exports
//	- AlertService: recipient list management and critical floor alerts
//	- HealthService: liveness, readiness and version information
//
// # Common Service Pattern
//
//	func NewDashboardService(source DatasetSource, logger *slog.Logger) *DashboardService {
//	    return &DashboardService{source: source, logger: logger}
//	}
//
//	func (s *DashboardService) Summary(ctx context.Context) (domain.SummaryView, error) {
//	    ds, err := s.dataset(ctx)
//	    if err != nil {
//	        return domain.SummaryView{}, err
//	    }
//	    ...
//	}
//
// # Error Handling
//
// Services return sentinel errors from this package and from the domain
// packages, wrapped with %w. The HTTP layer maps them to problem details:
//
//	- ErrNoData when the checklist has no rows
//	- analytics.ErrEmptyResult when a selection matches nothing
//	- ErrSameDates and ErrInvalidDate for bad selections
//	- notify.ErrSendFailure when the SMTP submission fails
//
// # Testing
//
// Services are tested against real checklist fixtures written to a temp dir
// and testify mocks for the mailer and the websocket hub:
//
//	mailer := new(MockMailer)
//	mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
package services
