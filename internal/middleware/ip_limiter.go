package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiterEntry: tracks a rate limiter and its last use time
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimit: connection limiter per client IP
type IPRateLimit struct {
	limiters map[string]*ipLimiterEntry
	every    time.Duration
	burst    int
	idle     time.Duration
	mu       sync.Mutex
}

// NewIPRateLimit: one connection per `every`, bursting to `burst`
func NewIPRateLimit(every time.Duration, burst int) *IPRateLimit {
	return &IPRateLimit{
		limiters: make(map[string]*ipLimiterEntry),
		every:    every,
		burst:    burst,
		idle:     1 * time.Hour,
	}
}

// Allow: checks if an IP may open another connection
func (iprl *IPRateLimit) Allow(ip string) bool {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	entry, exists := iprl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{
			limiter: rate.NewLimiter(rate.Every(iprl.every), iprl.burst),
		}
		iprl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// Cleanup: removes limiters idle for longer than an hour
func (iprl *IPRateLimit) Cleanup() {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	now := time.Now()
	for ip, entry := range iprl.limiters {
		if now.Sub(entry.lastSeen) > iprl.idle {
			delete(iprl.limiters, ip)
		}
	}
}

// Len returns the number of tracked IPs
func (iprl *IPRateLimit) Len() int {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	return len(iprl.limiters)
}

// ClientIP: RemoteAddr without the port, headers are ignored as they can be spoofed
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
