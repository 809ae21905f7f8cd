package middleware

import (
	"net/http"
	"sync"
	"time"

	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	perMinute int
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	lastSweep time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 200
	}
	return &rateLimiterStore{perMinute: perMinute, limiters: make(map[string]*limiterEntry), lastSweep: time.Now()}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) > limiterIdleTTL {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// RateLimitMiddleware limits requests per IP address to perMinute with an
// equal burst.
func RateLimitMiddleware(perMinute int, logger *zap.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.AbortJSONError(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			return
		}
		c.Next()
	}
}
