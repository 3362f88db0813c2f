package middleware

import (
	"encoding/json"
	"net/http"

	apierrors "floorcheck/internal/errors"
)

// Problems raised by the middleware chain itself, before any handler ran.
var middlewareProblems = map[int]struct{ typ, title string }{
	http.StatusUnsupportedMediaType: {apierrors.TypeValidation, "Unsupported Media Type"},
	http.StatusTooManyRequests:      {apierrors.TypeRateLimit, "Too Many Requests"},
	http.StatusInternalServerError:  {apierrors.TypeInternal, "Internal Server Error"},
	http.StatusGatewayTimeout:       {apierrors.TypeTimeout, "Request Timeout"},
}

// writeProblem answers with application/problem+json. The request id is
// carried as trace_id like the ErrorHandler does.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	kind, ok := middlewareProblems[status]
	if !ok {
		kind.typ, kind.title = "/errors/unknown", http.StatusText(status)
	}

	problem := apierrors.NewProblemDetails(status, kind.typ, kind.title, detail, r.URL.Path)
	if id := GetRequestID(r.Context()); id != "" {
		problem.WithExtension("trace_id", id)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}
