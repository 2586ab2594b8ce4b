package middleware

import (
	"net"
	"net/http"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/svclab/itemsvc/internal/config"
	"github.com/svclab/itemsvc/internal/constants"
	"github.com/svclab/itemsvc/internal/errs"
	"github.com/svclab/itemsvc/internal/httputil"
)

// RateLimiter applies a per-client token bucket. Idle client buckets
// expire out of the cache so the tracked set stays bounded.
type RateLimiter struct {
	limiters *gocache.Cache
	config   config.RateLimitConfig
}

// NewRateLimiter creates a rate limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiters: gocache.New(constants.RateLimitCleanupInterval, 2*constants.RateLimitCleanupInterval),
		config:   cfg,
	}
}

// Allow reports whether the identified client may proceed.
func (rl *RateLimiter) Allow(identifier string) bool {
	if !rl.config.Enabled {
		return true
	}

	var limiter *rate.Limiter
	if item, found := rl.limiters.Get(identifier); found {
		limiter = item.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.limiters.Set(identifier, limiter, gocache.DefaultExpiration)
	}

	return limiter.Allow()
}

// Middleware enforces the limit per client IP. Health and metrics
// endpoints are never limited so orchestrators keep their signal under
// load.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled || shouldSkipRateLimit(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.Allow("ip:" + clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, r, errs.RateLimited("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get(constants.HeaderXForwardedFor); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := r.Header.Get(constants.HeaderXRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func shouldSkipRateLimit(path string) bool {
	switch path {
	case constants.PathHealth, constants.PathLiveness, constants.PathReadiness, constants.PathMetrics:
		return true
	}
	return false
}
