package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"floorcheck/internal/auth"
	apierrors "floorcheck/internal/errors"
	"floorcheck/internal/infrastructure"
)

// SessionLookup resolves a session token. auth.SessionStore satisfies it.
type SessionLookup interface {
	Get(token string) (auth.Session, error)
}

// SessionAuth admits requests carrying a live session, either in the
// session cookie or as a Bearer token, and stores the principal in the
// request context.
type SessionAuth struct {
	sessions     SessionLookup
	cookieName   string
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewSessionAuth creates the session gate
func NewSessionAuth(sessions SessionLookup, cookieName string, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		sessions:     sessions,
		cookieName:   cookieName,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "session_auth"),
	}
}

// Token extracts the session token from the request, if any.
func (a *SessionAuth) Token(r *http.Request) string {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// Handler rejects requests without a valid session with 401.
func (a *SessionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := a.Token(r)
		if token == "" {
			a.errorHandler.HandleError(w, r, auth.ErrSessionNotFound)
			return
		}
		session, err := a.sessions.Get(token)
		if err != nil {
			a.logger.WarnContext(ctx, "session rejected",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", GetRealIP(r),
			)
			a.errorHandler.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, session.Principal)))
	})
}

// RequireRole admits only principals holding one of roles. It must run
// behind SessionAuth.
func RequireRole(errorHandler *apierrors.ErrorHandler, roles ...auth.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				errorHandler.HandleError(w, r, auth.ErrSessionNotFound)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			errorHandler.HandleError(w, r, fmt.Errorf("%s requires role %v: %w", p.Username, roles, auth.ErrForbidden))
		})
	}
}

// RequireAdmin admits only the administrator.
func RequireAdmin(errorHandler *apierrors.ErrorHandler) func(next http.Handler) http.Handler {
	return RequireRole(errorHandler, auth.RoleAdmin)
}
