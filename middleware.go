package main

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with a generated id and logs the
// outcome.
func (s *Server) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.Must(uuid.NewV4())
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("request",
			zap.String(ZAP_REQUEST_ID, requestID.String()),
			zap.String(ZAP_METHOD, r.Method),
			zap.String(ZAP_PATH, r.URL.Path),
			zap.Int(ZAP_STATUS, sw.status),
			zap.Duration(ZAP_DURATION, time.Since(start)))
	})
}
