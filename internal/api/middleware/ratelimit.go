package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// HeaderSessionID lets API clients name their session without a cookie
const HeaderSessionID = "X-Session-ID"

const (
	limiterIdleTimeout = 10 * time.Minute
	limiterSweepEvery  = 5 * time.Minute
)

// SessionLookup reports whether a session ID was issued by this server
type SessionLookup interface {
	Known(ctx context.Context, id string) bool
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles searches per session, or per client IP when there is no session
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	cookieName string
	sessions   SessionLookup
	logger     types.Logger

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter from cfg.RateLimit. Requests are keyed by session only
// when sessions knows the ID; anything else is keyed by client IP.
func NewRateLimiter(cfg *config.Config, sessions SessionLookup, logger types.Logger) *RateLimiter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limit:      rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60),
		burst:      burst,
		cookieName: cfg.Session.CookieName,
		sessions:   sessions,
		logger:     logger.WithField("component", "rate_limiter"),
		clients:    make(map[string]*clientLimiter),
		now:        time.Now,
	}
}

// Allow reports whether key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now

	return client.limiter.AllowN(now, 1)
}

// sweep drops limiters of clients that have been idle for a while
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < limiterSweepEvery {
		return
	}
	rl.lastSweep = now

	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > limiterIdleTimeout {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.clientKey(c)
			if rl.Allow(key) {
				return next(c)
			}

			requestID := GetRequestID(c)
			rl.logger.Warn("Search rate limited", map[string]interface{}{
				"request_id": requestID,
				"client":     key,
			})

			ce := utils.NewRateLimitError("retry in a few seconds")
			return c.JSON(ce.Code, models.ErrorResponse{
				Error:     ce.Kind,
				Message:   ce.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
	}
}

func (rl *RateLimiter) clientKey(c echo.Context) string {
	id := c.Request().Header.Get(HeaderSessionID)
	if id == "" {
		if cookie, err := c.Cookie(rl.cookieName); err == nil {
			id = cookie.Value
		}
	}

	if id != "" && rl.sessions != nil && rl.sessions.Known(c.Request().Context(), id) {
		return "session:" + id
	}
	return "ip:" + c.RealIP()
}
