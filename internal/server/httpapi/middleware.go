package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// RequestID returns the correlation id stored by the requestID middleware.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusRecorder remembers the response status and whether anything has
// been sent to the client yet.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	started bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.started {
		rec.status = code
		rec.started = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.started = true
	return rec.ResponseWriter.Write(b)
}

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", RequestID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

// recoverPanic turns a handler panic into a 500 envelope. If the handler had
// already started the response, the panic is only logged.
func (s *HTTPServer) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic in handler",
					"panic", p,
					"response_started", rec.started,
					"request_id", RequestID(r.Context()),
				)
				if !rec.started {
					writeError(w, errOccurred, http.StatusInternalServerError, "Internal server error.")
				}
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
