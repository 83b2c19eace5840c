package leaderboard

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h; the last one ends up outermost.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}

type loggingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Logging logs one line per request with its status and duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &loggingWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("handled request",
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", wrapped.statusCode,
				"remote", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}

// CORS allows browsers on the given origins to read and submit times.
// "*" or an empty list allows every origin.
func CORS(origins []string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	}
	if len(origins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}
	return cors.New(options).Handler
}
