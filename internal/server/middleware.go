// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Rate Limiter
// ============================================================================

// RateLimiter implements a sliding window rate limiter per IP address.
type RateLimiter struct {
	// requests maps IP addresses to their request timestamps.
	requests map[string][]time.Time

	// limit is the maximum number of requests per window.
	limit int

	// window is the time window for rate limiting.
	window time.Duration

	// mu protects concurrent access to the requests map.
	mu sync.Mutex
}

// NewRateLimiter creates a new RateLimiter with the specified limit and window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	// Start background cleanup goroutine
	go rl.cleanup()

	return rl
}

// DefaultRateLimiter returns a RateLimiter with default settings: 120 requests per minute.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(120, time.Minute)
}

// Allow checks if a request from the given IP should be allowed.
// Returns true if the request is allowed, false if rate limit is exceeded.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	// Get existing timestamps for this IP
	timestamps := rl.requests[ip]

	// Filter out timestamps outside the current window
	validTimestamps := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	// Check if we've exceeded the limit
	if len(validTimestamps) >= rl.limit {
		rl.requests[ip] = validTimestamps
		return false
	}

	// Add current request timestamp
	validTimestamps = append(validTimestamps, now)
	rl.requests[ip] = validTimestamps

	return true
}

// cleanup periodically removes old entries from the rate limiter.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		windowStart := now.Add(-rl.window)

		for ip, timestamps := range rl.requests {
			// Filter out old timestamps
			validTimestamps := make([]time.Time, 0, len(timestamps))
			for _, ts := range timestamps {
				if ts.After(windowStart) {
					validTimestamps = append(validTimestamps, ts)
				}
			}

			if len(validTimestamps) == 0 {
				delete(rl.requests, ip)
			} else {
				rl.requests[ip] = validTimestamps
			}
		}
		rl.mu.Unlock()
	}
}

// GetRemaining returns the number of requests remaining for the given IP.
func (rl *RateLimiter) GetRemaining(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	timestamps := rl.requests[ip]
	count := 0
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			count++
		}
	}

	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RateLimitMiddleware returns HTTP middleware that enforces rate limiting.
//
// Returns 429 Too Many Requests if the rate limit is exceeded.
// Adds X-RateLimit-* headers to all responses.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r)

			// Add rate limit headers
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
			w.Header().Set("X-RateLimit-Window", limiter.window.String())

			// Check rate limit
			if !limiter.Allow(clientIP) {
				remaining := limiter.GetRemaining(clientIP)
				w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(limiter.window.Seconds())))

				log.Printf("RATE_LIMIT_EXCEEDED | ip=%s limit=%d window=%v", clientIP, limiter.limit, limiter.window)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			remaining := limiter.GetRemaining(clientIP)
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// Request ID Middleware
// ============================================================================

// RequestIDHeader is the header carrying the per-request correlation ID.
const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware returns HTTP middleware that tags every request with
// a correlation ID. An incoming X-Request-Id is kept so clients can trace
// calls end to end; otherwise a fresh UUID is assigned. The ID is echoed
// on the response.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}

			w.Header().Set(RequestIDHeader, id)

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// Request Logging Middleware
// ============================================================================

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// newResponseWriter creates a wrapped response writer.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code before writing it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware returns HTTP middleware that logs all requests.
//
// Log format: "2024-01-15 14:30:45 | POST /prediction | 200 | 1.234s"
func LoggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap the response writer to capture status code
			wrapped := newResponseWriter(w)

			// Process the request
			next.ServeHTTP(wrapped, r)

			// Calculate duration
			duration := time.Since(start)

			// Format timestamp
			timestamp := start.Format("2006-01-02 15:04:05")

			// Log the request
			logger.Printf("%s | %s %s | %d | %.3fs",
				timestamp,
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				duration.Seconds(),
			)
		})
	}
}

// ============================================================================
// Security Headers Middleware
// ============================================================================

// SecurityHeadersMiddleware returns HTTP middleware that adds security headers.
//
// Headers set:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - X-XSS-Protection: 1; mode=block
//   - Content-Security-Policy: default-src 'self'
//   - Cache-Control: no-store, no-cache, must-revalidate
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Enable XSS filter
			w.Header().Set("X-XSS-Protection", "1; mode=block")

			// Content Security Policy
			w.Header().Set("Content-Security-Policy", "default-src 'self'")

			// Prices and predictions are time-sensitive; never cache them
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

			// Referrer Policy
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// Recovery Middleware
// ============================================================================

// RecoveryMiddleware returns HTTP middleware that recovers from panics.
//
// Features:
//   - Catches panics in downstream handlers
//   - Logs stack trace for debugging
//   - Returns 500 Internal Server Error to client
//   - Prevents server crash from unhandled panics
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Get stack trace
					stack := debug.Stack()

					// Log the panic and stack trace
					log.Printf("PANIC_RECOVERED | method=%s path=%s error=%v\n%s",
						r.Method,
						r.URL.Path,
						err,
						string(stack),
					)

					// Return 500 error to client
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================================
// Middleware Chain Helper
// ============================================================================

// Chain composes multiple middleware functions into a single middleware.
// Middlewares are applied in the order provided.
//
// Example:
//
//	chain := Chain(
//	    RecoveryMiddleware(),
//	    LoggingMiddleware(logger),
//	    RateLimitMiddleware(rateLimiter),
//	)
//	http.Handle("/prediction", chain(handler))
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middlewares in reverse order so they execute in order
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// ============================================================================
// IP Extraction Helper
// ============================================================================

// trustedProxies defines CIDR ranges of trusted proxies that are allowed to set
// X-Forwarded-For and X-Real-IP headers. Only trust these headers when the
// request comes from one of these trusted proxy IPs, so rate limits cannot
// be bypassed with spoofed headers.
var trustedProxies = []string{
	"127.0.0.1/32",   // IPv4 localhost
	"::1/128",        // IPv6 localhost
	"10.0.0.0/8",     // Private network (RFC 1918)
	"172.16.0.0/12",  // Private network (RFC 1918)
	"192.168.0.0/16", // Private network (RFC 1918)
	"fc00::/7",       // IPv6 Unique Local Addresses (RFC 4193)
}

// parsedTrustedProxies caches the parsed CIDR networks for performance.
var parsedTrustedProxies []*net.IPNet
var trustedProxiesOnce sync.Once

// parseTrustedProxies parses the trusted proxy CIDR ranges once.
func parseTrustedProxies() {
	trustedProxiesOnce.Do(func() {
		parsedTrustedProxies = make([]*net.IPNet, 0, len(trustedProxies))
		for _, cidr := range trustedProxies {
			_, ipNet, err := net.ParseCIDR(cidr)
			if err == nil {
				parsedTrustedProxies = append(parsedTrustedProxies, ipNet)
			} else {
				log.Printf("TRUSTED_PROXIES: Invalid CIDR notation: %s", cidr)
			}
		}
	})
}

// isTrustedProxy checks if the given IP address is in the trusted proxy list.
func isTrustedProxy(ipStr string) bool {
	parseTrustedProxies()

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, cidr := range parsedTrustedProxies {
		if cidr.Contains(ip) {
			return true
		}
	}

	return false
}

// getRemoteIP extracts the IP address from r.RemoteAddr.
// RemoteAddr is in the format "IP:port" or "[IPv6]:port".
func getRemoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return remoteAddr
	}
	return host
}

// GetClientIP extracts the client IP address from an HTTP request.
//
// Only trusts X-Forwarded-For and X-Real-IP headers when the request
// comes from a trusted proxy (localhost or private network ranges), so a
// direct caller cannot dodge the rate limiter by forging headers.
//
// Process:
//  1. Extract the direct connection IP from RemoteAddr
//  2. If the connection is from a trusted proxy, check forwarded headers:
//     a. X-Forwarded-For (validate IP format, use first IP in list)
//     b. X-Real-IP (validate IP format)
//  3. Fall back to connection IP (RemoteAddr) if no valid forwarded header
//
// Returns: The validated client IP address.
func GetClientIP(r *http.Request) string {
	// Always get the direct connection IP first
	connIP := getRemoteIP(r.RemoteAddr)

	// Only trust forwarded headers if the connection is from a trusted proxy
	if !isTrustedProxy(connIP) {
		// Direct connection from untrusted source - use connection IP only
		return connIP
	}

	// Connection is from trusted proxy - check forwarded headers

	// Check X-Forwarded-For header (may contain multiple IPs)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// The first IP is the original client
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			clientIP := strings.TrimSpace(ips[0])
			// Validate that it's a valid IP address to prevent injection
			if net.ParseIP(clientIP) != nil {
				return clientIP
			}
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		realIP := strings.TrimSpace(xri)
		// Validate that it's a valid IP address to prevent injection
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	// Fall back to connection IP if no valid forwarded headers
	return connIP
}
