package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"floorcheck/internal/auth"
	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/middleware"
	"floorcheck/internal/notify"
	"floorcheck/internal/recipients"
	"floorcheck/internal/shared/testutil"
	"floorcheck/pkg/contracts/domain"
)

var (
	adminUser   = auth.Principal{Username: "admin", Role: auth.RoleAdmin}
	managerUser = auth.Principal{Username: "gestor", Role: auth.RoleManager}
)

func withPrincipal(p *auth.Principal, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			r = r.WithContext(auth.WithPrincipal(r.Context(), *p))
		}
		next.ServeHTTP(w, r)
	})
}

func TestAlertsHandler(t *testing.T) {
	defaultView := domain.RecipientsView{Recipients: []string{"exemplo@destinatario.com"}, Default: "exemplo@destinatario.com"}

	tests := []struct {
		name       string
		principal  *auth.Principal
		method     string
		path       string
		body       string
		setup      func(*MockAlertService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "admin lists recipients",
			principal:  &adminUser,
			method:     http.MethodGet,
			path:       "/recipients",
			setup:      func(m *MockAlertService) { m.On("Recipients", mock.Anything).Return(defaultView) },
			wantStatus: http.StatusOK,
			wantBody:   "exemplo@destinatario.com",
		},
		{
			name:       "manager cannot list recipients",
			principal:  &managerUser,
			method:     http.MethodGet,
			path:       "/recipients",
			wantStatus: http.StatusForbidden,
		},
		{
			name:      "admin adds recipient",
			principal: &adminUser,
			method:    http.MethodPost,
			path:      "/recipients",
			body:      `{"email":"novo@example.com"}`,
			setup: func(m *MockAlertService) {
				m.On("AddRecipient", mock.Anything, "novo@example.com").
					Return(domain.RecipientsView{Recipients: []string{"exemplo@destinatario.com", "novo@example.com"}}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   "novo@example.com",
		},
		{
			name:       "malformed address rejected by validation",
			principal:  &adminUser,
			method:     http.MethodPost,
			path:       "/recipients",
			body:       `{"email":"not-an-address"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "email",
		},
		{
			name:      "store rejects address",
			principal: &adminUser,
			method:    http.MethodPost,
			path:      "/recipients",
			body:      `{"email":"a@b.co"}`,
			setup: func(m *MockAlertService) {
				m.On("AddRecipient", mock.Anything, "a@b.co").Return(domain.RecipientsView{}, recipients.ErrInvalidAddress)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "admin resets recipients",
			principal:  &adminUser,
			method:     http.MethodDelete,
			path:       "/recipients",
			setup:      func(m *MockAlertService) { m.On("ResetRecipients", mock.Anything).Return(defaultView, nil) },
			wantStatus: http.StatusOK,
			wantBody:   `"default":"exemplo@destinatario.com"`,
		},
		{
			name:      "manager sends alert",
			principal: &managerUser,
			method:    http.MethodPost,
			path:      "/send",
			body:      `{"critical_floor":"7"}`,
			setup: func(m *MockAlertService) {
				m.On("Send", mock.Anything, "7", managerUser).Return(domain.AlertResult{
					CriticalFloor: "7",
					Recipients:    []string{"exemplo@destinatario.com"},
					SentAt:        time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"critical_floor":"7"`,
		},
		{
			name:       "blank floor",
			principal:  &adminUser,
			method:     http.MethodPost,
			path:       "/send",
			body:       `{"critical_floor":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "critical_floor",
		},
		{
			name:      "no recipients",
			principal: &adminUser,
			method:    http.MethodPost,
			path:      "/send",
			body:      `{"critical_floor":"7"}`,
			setup: func(m *MockAlertService) {
				m.On("Send", mock.Anything, "7", adminUser).Return(domain.AlertResult{}, notify.ErrNoRecipients)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "NO_RECIPIENTS",
		},
		{
			name:      "smtp failure",
			principal: &adminUser,
			method:    http.MethodPost,
			path:      "/send",
			body:      `{"critical_floor":"7"}`,
			setup: func(m *MockAlertService) {
				m.On("Send", mock.Anything, "7", adminUser).
					Return(domain.AlertResult{}, errors.Join(notify.ErrSendFailure, errors.New("535 auth")))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "no principal",
			method:     http.MethodPost,
			path:       "/send",
			body:       `{"critical_floor":"7"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			svc := new(MockAlertService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAlertsHandler(svc, middleware.NewValidator(logger), apierrors.NewErrorHandler(logger, false), logger)
			handler := withPrincipal(tt.principal, h.Routes())

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
