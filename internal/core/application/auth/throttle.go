package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle keeps one token bucket per username.
type LoginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLoginThrottle allows perMinute attempts per username with an equal burst.
// perMinute <= 0 disables throttling.
func NewLoginThrottle(perMinute int) *LoginThrottle {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &LoginThrottle{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    max(perMinute, 1),
	}
}

// Allow consumes one attempt for username.
func (t *LoginThrottle) Allow(username string) bool {
	key := strings.ToLower(strings.TrimSpace(username))

	t.mu.Lock()
	limiter, ok := t.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}
