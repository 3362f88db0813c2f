package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"floorcheck/internal/analytics"
	"floorcheck/internal/auth"
	"floorcheck/internal/dataset"
	"floorcheck/internal/notify"
	"floorcheck/internal/recipients"
	"floorcheck/internal/services"
)

// Common error types following RFC 7807
const (
	TypeValidation   = "/errors/validation"
	TypeNotFound     = "/errors/not-found"
	TypeUnauthorized = "/errors/unauthorized"
	TypeForbidden    = "/errors/forbidden"
	TypeRateLimit    = "/errors/rate-limit"
	TypeInternal     = "/errors/internal"
	TypeTimeout      = "/errors/timeout"
)

// Domain-specific error types
const (
	TypeDataNotFound       = "/errors/data/not-found"
	TypeDataCorrupted      = "/errors/data/corrupted"
	TypeEmptyResult        = "/errors/data/empty-result"
	TypeRecipients         = "/errors/recipients/load-failed"
	TypeNotificationFailed = "/errors/notification/send-failed"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	// Add stack trace in development
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	switch {
	case errors.Is(err, services.ErrNoData):
		return NewProblemDetails(http.StatusNotFound, TypeDataNotFound,
			"Data Not Available", ErrNoData.Message, path).
			WithExtension("error_code", ErrNoData.ErrorCode)

	case errors.Is(err, services.ErrSameDates):
		return h.apiErrorToProblem(ErrSameDates, r)

	case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrPageOutOfRange):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Bad Request", err.Error(), path).
			WithExtension("error_code", ErrInvalidParameter.ErrorCode)

	case errors.Is(err, dataset.ErrFileNotFound):
		return NewProblemDetails(http.StatusNotFound, TypeDataNotFound,
			"Data Not Available", ErrNoData.Message, path).
			WithExtension("error_code", ErrNoData.ErrorCode)

	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, dataset.ErrMalformed):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeDataCorrupted,
			"Data Corrupted", err.Error(), path).
			WithExtension("error_code", "DATA_CORRUPTED")

	case errors.Is(err, analytics.ErrEmptyResult):
		return NewProblemDetails(http.StatusNotFound, TypeEmptyResult,
			"Empty Result", ErrEmptyResult.Message, path).
			WithExtension("error_code", ErrEmptyResult.ErrorCode)

	case errors.Is(err, dataset.ErrUnknownColumn):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Bad Request", err.Error(), path).
			WithExtension("error_code", ErrInvalidParameter.ErrorCode)

	case errors.Is(err, auth.ErrInvalidCredentials):
		return NewProblemDetails(http.StatusUnauthorized, TypeUnauthorized,
			"Unauthorized", ErrInvalidCredentials.Message, path).
			WithExtension("error_code", ErrInvalidCredentials.ErrorCode)

	case errors.Is(err, auth.ErrSessionNotFound):
		return NewProblemDetails(http.StatusUnauthorized, TypeUnauthorized,
			"Unauthorized", "Authentication required to access this resource", path).
			WithExtension("error_code", ErrUnauthorized.ErrorCode)

	case errors.Is(err, auth.ErrForbidden):
		return NewProblemDetails(http.StatusForbidden, TypeForbidden,
			"Forbidden", "You don't have permission to access this resource", path).
			WithExtension("error_code", ErrForbidden.ErrorCode)

	case errors.Is(err, notify.ErrEmptyFloor), errors.Is(err, recipients.ErrInvalidAddress):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Bad Request", err.Error(), path).
			WithExtension("error_code", ErrValidationFailed.ErrorCode)

	case errors.Is(err, notify.ErrNoRecipients):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Bad Request", ErrNoRecipients.Message, path).
			WithExtension("error_code", ErrNoRecipients.ErrorCode)

	case errors.Is(err, notify.ErrSendFailure):
		return NewProblemDetails(http.StatusBadGateway, TypeNotificationFailed,
			"Notification Failed", ErrNotificationFailed.Message, path).
			WithExtension("error_code", ErrNotificationFailed.ErrorCode)

	case errors.Is(err, recipients.ErrLoadFailure):
		return NewProblemDetails(http.StatusInternalServerError, TypeRecipients,
			"Recipients Unavailable", err.Error(), path).
			WithExtension("error_code", "RECIPIENTS_LOAD_FAILED")
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		path,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "INVALID_PARAMETER", "SAME_DATES", "NO_RECIPIENTS":
		problemType = TypeValidation
	case "NO_DATA":
		problemType = TypeDataNotFound
	case "EMPTY_RESULT":
		problemType = TypeEmptyResult
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		problemType = TypeUnauthorized
	case "FORBIDDEN":
		problemType = TypeForbidden
	case "NOTIFICATION_SEND_FAILED":
		problemType = TypeNotificationFailed
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeInternal,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
