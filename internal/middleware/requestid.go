package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// requestIDHeaders are read in order; proxies in front of the dashboard may
// only forward a correlation ID.
var requestIDHeaders = []string{RequestIDHeader, "X-Correlation-ID"}

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID keeps the first well-formed caller ID, or mints a UUID. The ID is
// stored under chi's key too, so chi middleware such as Recoverer reports it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := incomingRequestID(r)
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, rid)
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func incomingRequestID(r *http.Request) string {
	for _, h := range requestIDHeaders {
		if v := strings.TrimSpace(r.Header.Get(h)); requestIDPattern.MatchString(v) {
			return v
		}
	}
	return ""
}

// RequestIDFromContext returns the ID set by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
