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
	"floorcheck/pkg/contracts/domain"
)

// AuthHandler opens and closes dashboard sessions
type AuthHandler struct {
	resolver     auth.PrincipalResolver
	sessions     SessionManager
	gate         *middleware.SessionAuth
	validator    *middleware.Validator
	metrics      LoginRecorder
	cookieName   string
	secure       bool
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// AuthHandlerConfig groups the AuthHandler collaborators
type AuthHandlerConfig struct {
	Resolver      auth.PrincipalResolver
	Sessions      SessionManager
	Gate          *middleware.SessionAuth
	Validator     *middleware.Validator
	Metrics       LoginRecorder
	CookieName    string
	SecureCookies bool
	ErrorHandler  *apierrors.ErrorHandler
	Logger        *slog.Logger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		resolver:     cfg.Resolver,
		sessions:     cfg.Sessions,
		gate:         cfg.Gate,
		validator:    cfg.Validator,
		metrics:      cfg.Metrics,
		cookieName:   cfg.CookieName,
		secure:       cfg.SecureCookies,
		errorHandler: cfg.ErrorHandler,
		logger:       cfg.Logger.With(slog.String("component", "auth_handler")),
	}
}

// Routes returns the auth routes. loginLimiter guards POST /login.
func (h *AuthHandler) Routes(loginLimiter func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(loginLimiter).Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Handler)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
	return r
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	principal, err := h.resolver.Resolve(ctx, req.Username, req.Password)
	if err != nil {
		h.recordLogin(r, "", false)
		h.logger.WarnContext(ctx, "login failed",
			slog.String("username", req.Username),
			slog.String("remote_addr", middleware.GetRealIP(r)))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	session := h.sessions.Create(principal)
	h.recordLogin(r, string(principal.Role), true)
	h.logger.InfoContext(ctx, "login succeeded",
		slog.String("username", principal.Username),
		slog.String("role", string(principal.Role)))

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	render.JSON(w, r, sessionView(session))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(h.gate.Token(r))
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(h.gate.Token(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, sessionView(session))
}

func (h *AuthHandler) recordLogin(r *http.Request, role string, success bool) {
	if h.metrics != nil {
		h.metrics.RecordLogin(r.Context(), role, success)
	}
}

func sessionView(s auth.Session) domain.SessionView {
	return domain.SessionView{
		Username:  s.Principal.Username,
		Role:      string(s.Principal.Role),
		ExpiresAt: s.ExpiresAt,
	}
}
