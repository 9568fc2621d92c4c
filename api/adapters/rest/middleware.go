package rest

import (
	"log/slog"
	"net/http"
	"time"

	"todo-tracker/api/pkg/reqid"
	"todo-tracker/api/pkg/res"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestID reuses the incoming X-Request-ID or generates a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(reqid.Header)
		if id == "" {
			id = reqid.New()
		}
		w.Header().Set(reqid.Header, id)
		next.ServeHTTP(w, r.WithContext(reqid.WithID(r.Context(), id)))
	})
}

// AccessLog logs one line per request and turns panics into 500s.
func AccessLog(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				log.Error("panic in handler", "panic", p, "path", r.URL.Path, "request_id", reqid.FromContext(r.Context()))
				res.Error(rec, "internal error", http.StatusInternalServerError)
			}
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", reqid.FromContext(r.Context()),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
