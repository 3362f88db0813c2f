package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"floorcheck/internal/auth"
	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/middleware"
	"floorcheck/pkg/contracts/api/v1"
)

// AlertsHandler manages the recipient list and sends critical floor alerts
type AlertsHandler struct {
	service      AlertServiceInterface
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(service AlertServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *AlertsHandler {
	return &AlertsHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "alerts")),
	}
}

// Routes returns the alert routes. Recipient management is admin only,
// sending is open to every signed-in role.
func (h *AlertsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/recipients", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.errorHandler))
		r.Get("/", h.ListRecipients)
		r.Post("/", h.AddRecipient)
		r.Delete("/", h.ResetRecipients)
	})
	r.Post("/send", h.Send)

	return r
}

// ListRecipients handles GET /api/alerts/recipients
func (h *AlertsHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Recipients(r.Context()))
}

// AddRecipient handles POST /api/alerts/recipients
func (h *AlertsHandler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	var req api.AddRecipientRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.AddRecipient(r.Context(), req.Email)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// ResetRecipients handles DELETE /api/alerts/recipients
func (h *AlertsHandler) ResetRecipients(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ResetRecipients(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Send handles POST /api/alerts/send
func (h *AlertsHandler) Send(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, auth.ErrSessionNotFound)
		return
	}

	var req api.SendAlertRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Send(r.Context(), req.CriticalFloor, principal)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
