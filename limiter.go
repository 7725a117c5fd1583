package seotag

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter rate-limits login attempts per IP address. Each IP gets max
// attempts as a burst, refilled evenly over window.
type LoginLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	max       int
	window    time.Duration
	lastSweep time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	if max < 1 {
		max = 1
	}
	return &LoginLimiter{
		visitors:  make(map[string]*visitor),
		max:       max,
		window:    window,
		lastSweep: time.Now(),
	}
}

func (l *LoginLimiter) visitor(ip string, now time.Time) *rate.Limiter {
	if now.Sub(l.lastSweep) > l.window {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.window {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow checks if the IP has not exceeded the rate limit and records the attempt.
func (l *LoginLimiter) Allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visitor(ip, now).AllowN(now, 1)
}

// Check returns true if the IP has an attempt left. It does not consume one;
// call Record on a failed login.
func (l *LoginLimiter) Check(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visitor(ip, now).TokensAt(now) >= 1
}

// Record consumes one attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	now := time.Now()
	l.mu.Lock()
	l.visitor(ip, now).AllowN(now, 1)
	l.mu.Unlock()
}
