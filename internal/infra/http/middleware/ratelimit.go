package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"go.uber.org/zap"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RateLimit rejects requests over the per-IP budget with 429. A limiter
// error lets the request through.
func RateLimit(limiter Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				RecordRateLimited(r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(rateLimitedResponse{
					Success: false,
					Message: "Too many requests. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP expects chi's RealIP to have already folded proxy headers into
// RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
