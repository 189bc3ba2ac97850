package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		*responseData
	}
)

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.status = statusCode
}

// Initialize builds the production logger. The caller owns the final Sync.
func Initialize() (*zap.SugaredLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Middleware logs every request, tagging it with a generated request id
// that is also echoed back in the X-Request-Id header.
func Middleware(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)

			lrw := &loggingResponseWriter{w, &responseData{status: http.StatusOK}}

			next.ServeHTTP(lrw, r)

			log.Infow("request",
				"request_id", requestID,
				"uri", r.RequestURI,
				"method", r.Method,
				"duration", time.Since(start),
				"status", lrw.status,
				"size", lrw.size,
			)
		})
	}
}
