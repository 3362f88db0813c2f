package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/exporter"
	"floorcheck/internal/middleware"
	"floorcheck/internal/services"
	"floorcheck/pkg/contracts/api/v1"
)

// maxPageSize bounds the table page size accepted from clients
const maxPageSize = 500

// DashboardHandler serves the read-only dashboard views
type DashboardHandler struct {
	service      DashboardServiceInterface
	csv          exporter.Exporter
	xlsx         exporter.Exporter
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	service DashboardServiceInterface,
	csv, xlsx exporter.Exporter,
	validator *middleware.Validator,
	errorHandler *apierrors.ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		csv:          csv,
		xlsx:         xlsx,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "dashboard")),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/dates", h.Dates)
		r.Get("/summary", h.Summary)
		r.Get("/floors", h.Floors)
		r.Get("/positions", h.Positions)
		r.Get("/observations", h.Observations)
		r.Get("/table", h.Table)
	})
	r.Get("/export.csv", h.export(h.csv))
	r.Get("/export.xlsx", h.export(h.xlsx))

	return r
}

// Dates handles GET /api/dashboard/dates
func (h *DashboardHandler) Dates(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Dates(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Summary handles GET /api/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Floors handles GET /api/dashboard/floors?date1=&date2=&floor=
func (h *DashboardHandler) Floors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := api.FloorsRequest{
		Date1: q.Get("date1"),
		Date2: q.Get("date2"),
		Floor: q.Get("floor"),
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Floors(r.Context(), req.Date1, req.Date2, req.Floor)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Positions handles GET /api/dashboard/positions?date=&position=
func (h *DashboardHandler) Positions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := api.PositionsRequest{
		Date:     q.Get("date"),
		Position: q.Get("position"),
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Positions(r.Context(), req.Date, req.Position)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Observations handles GET /api/dashboard/observations?date1=&date2=&observation=
func (h *DashboardHandler) Observations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := api.ObservationsRequest{
		Date1:       q.Get("date1"),
		Date2:       q.Get("date2"),
		Observation: q.Get("observation"),
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Observations(r.Context(), req.Date1, req.Date2, req.Observation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Table handles GET /api/dashboard/table?page=&page_size=
func (h *DashboardHandler) Table(w http.ResponseWriter, r *http.Request) {
	page, err := middleware.QueryInt(r, "page", 1, 1<<20, 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	size, err := middleware.QueryInt(r, "page_size", 1, maxPageSize, services.DefaultPageSize)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Table(r.Context(), page, size)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// export renders the whole table into memory first so a failure can still
// be reported as a problem response.
func (h *DashboardHandler) export(exp exporter.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := h.service.Export(r.Context(), &buf, exp); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", exp.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName()))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.WarnContext(r.Context(), "export write interrupted",
				slog.String("file", exp.FileName()),
				slog.String("error", err.Error()))
		}
	}
}
