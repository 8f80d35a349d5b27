package http

import (
	"sync"
	"time"
)

// RateLimiter tracks failed auth attempts and blocks IPs temporarily
type RateLimiter struct {
	failures map[string]time.Time // IP -> time of last failure
	mu       sync.RWMutex
	delay    time.Duration // How long to block after failure
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{
		failures: make(map[string]time.Time),
		delay:    delay,
		now:      time.Now,
	}
}

// RecordFailure records a failed auth attempt for an IP
func (r *RateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[ip] = r.now()
	r.pruneLocked()
}

// ClearFailure clears the failure record for an IP (on successful auth)
func (r *RateLimiter) ClearFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failures, ip)
}

// IsLimited returns true if the IP is currently rate limited
func (r *RateLimiter) IsLimited(ip string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	failTime, exists := r.failures[ip]
	if !exists {
		return false
	}
	return r.now().Sub(failTime) <= r.delay
}

// pruneLocked drops expired entries so the map stays bounded.
func (r *RateLimiter) pruneLocked() {
	now := r.now()
	for ip, t := range r.failures {
		if now.Sub(t) > r.delay {
			delete(r.failures, ip)
		}
	}
}
