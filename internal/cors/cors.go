// Package cors implements the origin allow-list applied at the server
// entry point, ahead of routing.
package cors

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type Middleware struct {
	logger       *zap.Logger
	allowOrigins []string
	allowAll     bool
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	allowAll := false
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	return &Middleware{
		logger:       logger,
		allowOrigins: allowOrigins,
		allowAll:     allowAll,
	}
}

func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Traceparent")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	})
}

func (m *Middleware) allowed(origin string) bool {
	if m.allowAll {
		return true
	}
	for _, allowed := range m.allowOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
