package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/exporter"
	"floorcheck/internal/middleware"
	"floorcheck/internal/services"
	"floorcheck/internal/shared/testutil"
	"floorcheck/pkg/contracts/domain"
)

func newDashboardHandler(t *testing.T, svc *MockDashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewDashboardHandler(svc,
		exporter.NewCSVWriter(exporter.DefaultWriteOptions(), logger),
		exporter.NewXLSXWriter(logger),
		middleware.NewValidator(logger),
		apierrors.NewErrorHandler(logger, false),
		logger)
	return h.Routes()
}

func TestDashboardHandler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(*MockDashboardService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "dates",
			path: "/dates",
			setup: func(m *MockDashboardService) {
				m.On("Dates", mock.Anything).Return(domain.DatesView{Dates: []string{"01/02/2024"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"dates":["01/02/2024"]`,
		},
		{
			name: "summary without data",
			path: "/summary",
			setup: func(m *MockDashboardService) {
				m.On("Summary", mock.Anything).Return(domain.SummaryView{}, services.ErrNoData)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "NO_DATA",
		},
		{
			name: "floors with drill-down",
			path: "/floors?date1=01/02/2024&date2=02/02/2024&floor=3",
			setup: func(m *MockDashboardService) {
				m.On("Floors", mock.Anything, "01/02/2024", "02/02/2024", "3").
					Return(domain.FloorsView{Drilldown: &domain.FloorDrilldown{Floor: "3"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"floor":"3"`,
		},
		{
			name:       "floors missing date",
			path:       "/floors?date1=01/02/2024",
			wantStatus: http.StatusBadRequest,
			wantBody:   "date2",
		},
		{
			name:       "positions with ISO date",
			path:       "/positions?date=2024-02-01",
			wantStatus: http.StatusBadRequest,
			wantBody:   "VALIDATION_FAILED",
		},
		{
			name: "positions",
			path: "/positions?date=01/02/2024",
			setup: func(m *MockDashboardService) {
				m.On("Positions", mock.Anything, "01/02/2024", "").
					Return(domain.PositionsView{Date: "01/02/2024", CriticalPosition: "Janela"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"critical_position":"Janela"`,
		},
		{
			name: "observations on the same date",
			path: "/observations?date1=01/02/2024&date2=01/02/2024",
			setup: func(m *MockDashboardService) {
				m.On("Observations", mock.Anything, "01/02/2024", "01/02/2024", "").
					Return(domain.ObservationsView{}, services.ErrSameDates)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "SAME_DATES",
		},
		{
			name: "table defaults",
			path: "/table",
			setup: func(m *MockDashboardService) {
				m.On("Table", mock.Anything, 1, services.DefaultPageSize).
					Return(domain.TableView{Page: 1, PageSize: services.DefaultPageSize}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"page_size":15`,
		},
		{
			name:       "table page size too large",
			path:       "/table?page_size=501",
			wantStatus: http.StatusBadRequest,
			wantBody:   "page_size",
		},
		{
			name: "table page out of range",
			path: "/table?page=9",
			setup: func(m *MockDashboardService) {
				m.On("Table", mock.Anything, 9, services.DefaultPageSize).
					Return(domain.TableView{}, services.ErrPageOutOfRange)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			handler := newDashboardHandler(t, svc)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Export(t *testing.T) {
	t.Run("csv attachment", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Export", mock.Anything, mock.Anything, mock.AnythingOfType("*exporter.CSVWriter")).
			Return("Data;Andar\n", nil)

		rec := httptest.NewRecorder()
		newDashboardHandler(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.csv", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Equal(t, "Data;Andar\n", rec.Body.String())
	})

	t.Run("xlsx failure is a problem response", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Export", mock.Anything, mock.Anything, mock.AnythingOfType("*exporter.XLSXWriter")).
			Return("", services.ErrNoData)

		rec := httptest.NewRecorder()
		newDashboardHandler(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.xlsx", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}
