// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// visitor holds the recent request times for one client IP.
type visitor struct {
	mu   sync.Mutex
	hits []time.Time
}

// RateLimiter enforces a sliding-window request cap per client IP. The
// router puts it in front of the login form, where a single author's
// legitimate traffic is a handful of attempts while credential stuffing
// is thousands.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	done     chan struct{}
}

// NewRateLimiter allows limit requests per window for each IP and
// starts a sweeper that forgets idle clients.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		done:     make(chan struct{}),
	}

	go rl.sweep()
	return rl
}

// Stop shuts down the background sweeper.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Middleware rejects requests over the cap with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records a hit for key and reports whether it stays within the
// window's cap.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	v, ok := rl.visitors[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Another request may have raced us here.
		v, ok = rl.visitors[key]
		if !ok {
			v = &visitor{}
			rl.visitors[key] = v
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	v.mu.Lock()
	defer v.mu.Unlock()

	live := v.hits[:0]
	for _, hit := range v.hits {
		if hit.After(cutoff) {
			live = append(live, hit)
		}
	}
	v.hits = live

	if len(v.hits) >= rl.limit {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// sweep drops visitors with no hits inside the window every few
// minutes, keeping the map from growing with every IP ever seen.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		v.mu.Lock()
		idle := true
		for _, hit := range v.hits {
			if hit.After(cutoff) {
				idle = false
				break
			}
		}
		v.mu.Unlock()

		if idle {
			delete(rl.visitors, key)
		}
	}
}

// clientIP picks the address to rate-limit on. Behind the reverse proxy
// the first X-Forwarded-For entry is the caller; direct connections
// fall back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
