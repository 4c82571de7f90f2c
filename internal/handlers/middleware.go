package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/logger"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom returns the authenticated session stored by requireAuth.
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey).(auth.Session)
	return s, ok
}

// requireAuth admits any authenticated staff member and stores the session
// on the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.verifier.FromRequest(r)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				writeProblem(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			} else {
				writeProblem(w, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
			}
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}

// requireRole admits only the listed roles.
func (h *Handler) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())
		for _, role := range roles {
			if session.Role == role {
				next(w, r)
				return
			}
		}
		writeProblem(w, http.StatusForbidden, "forbidden", "role "+session.Role+" may not perform this action")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the recorder transparent for the event stream.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withRequestLog wraps the whole mux: one structured line per request plus
// the duration histogram observation.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		h.metrics.RequestDuration.Observe(elapsed.Seconds())
		h.log.Info("http_request", map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   elapsed.String(),
		})
	})
}
