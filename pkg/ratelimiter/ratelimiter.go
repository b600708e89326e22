package ratelimiter

import (
	"strings"
	"sync"
	"time"
)

// RatePolicy defines the rate limit configuration for a namespace
type RatePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// RateLimiter provides in-memory rate limiting with namespace support.
// It tracks attempts per namespace:key combination and enforces a
// different policy per namespace.
//
// Example usage:
//
//	rl := ratelimiter.NewRateLimiter()
//	rl.SetPolicy("scheduler_sweep", 2, 1*time.Minute)
//
//	if !rl.Allow("scheduler_sweep", token) {
//	    return http.StatusTooManyRequests
//	}
type RateLimiter struct {
	mu          sync.RWMutex
	attempts    map[string][]time.Time // "namespace:key" -> timestamps of attempts
	policies    map[string]RatePolicy  // namespace -> policy
	stopCleanup chan struct{}
	stopped     bool
}

// NewRateLimiter creates a new rate limiter with namespace support.
// A background goroutine periodically drops expired entries so the
// attempt map cannot grow without bound.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string][]time.Time),
		policies:    make(map[string]RatePolicy),
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// SetPolicy configures the rate limit policy for a namespace. Call it
// during initialization, before Allow is used for that namespace.
func (rl *RateLimiter) SetPolicy(namespace string, maxAttempts int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[namespace] = RatePolicy{
		MaxAttempts: maxAttempts,
		Window:      window,
	}
}

// Allow reports whether a request for the given namespace and key is
// within the configured limit, recording the attempt when it is.
// A namespace with no configured policy denies all requests.
func (rl *RateLimiter) Allow(namespace, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, exists := rl.policies[namespace]
	if !exists {
		// Fail closed when no policy is configured
		return false
	}

	now := time.Now()
	cutoff := now.Add(-policy.Window)
	compositeKey := namespace + ":" + key

	valid := rl.attempts[compositeKey][:0:0]
	for _, t := range rl.attempts[compositeKey] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= policy.MaxAttempts {
		rl.attempts[compositeKey] = valid
		return false
	}

	rl.attempts[compositeKey] = append(valid, now)
	return true
}

// Reset clears all recorded attempts for the given namespace and key.
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, namespace+":"+key)
}

// GetRemainingWindow returns the number of seconds until the oldest
// still-counted attempt expires. Useful for a Retry-After header.
// Returns 0 if there are no attempts or the namespace has no policy.
func (rl *RateLimiter) GetRemainingWindow(namespace, key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	policy, exists := rl.policies[namespace]
	if !exists {
		return 0
	}

	attemptsList := rl.attempts[namespace+":"+key]
	if len(attemptsList) == 0 {
		return 0
	}

	now := time.Now()
	cutoff := now.Add(-policy.Window)

	var oldestValid time.Time
	for _, t := range attemptsList {
		if t.After(cutoff) && (oldestValid.IsZero() || t.Before(oldestValid)) {
			oldestValid = t
		}
	}

	if oldestValid.IsZero() {
		return 0
	}

	remaining := time.Until(oldestValid.Add(policy.Window))
	if remaining <= 0 {
		return 0
	}

	return int(remaining.Seconds()) + 1 // round up
}

// cleanup periodically removes keys whose attempts have all expired.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()

			for compositeKey, attemptsList := range rl.attempts {
				namespace, _, _ := strings.Cut(compositeKey, ":")

				policy, exists := rl.policies[namespace]
				if !exists {
					delete(rl.attempts, compositeKey)
					continue
				}

				cutoff := now.Add(-policy.Window)
				hasRecent := false
				for _, t := range attemptsList {
					if t.After(cutoff) {
						hasRecent = true
						break
					}
				}

				if !hasRecent {
					delete(rl.attempts, compositeKey)
				}
			}
			rl.mu.Unlock()

		case <-rl.stopCleanup:
			return
		}
	}
}

// Stop stops the background cleanup goroutine. Safe to call multiple
// times.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		close(rl.stopCleanup)
		rl.stopped = true
	}
}
