package app

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter throttles login and registration attempts per client IP. Each IP
// gets a small token bucket; idle entries are swept hourly so the map does
// not grow without bound.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func newIPLimiter() *ipLimiter {
	l := &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
	go l.cleanup()
	return l
}

func (l *ipLimiter) allow(remoteAddr string) bool {
	ip := remoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		ip = host
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(2*time.Second), 5)
		l.limiters[ip] = limiter
	}
	l.lastSeen[ip] = time.Now()
	return limiter.Allow()
}

func (l *ipLimiter) cleanup() {
	for range time.Tick(1 * time.Hour) {
		l.mu.Lock()
		for ip, seen := range l.lastSeen {
			if time.Since(seen) > 3*time.Hour {
				delete(l.limiters, ip)
				delete(l.lastSeen, ip)
			}
		}
		l.mu.Unlock()
	}
}
