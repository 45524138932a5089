// Package security holds the small set of defensive checks the driver
// applies to untrusted input: editor IPC connection rate limiting.
package security

import (
	"sync"

	"golang.org/x/time/rate"
)

// ConnectionLimiter bounds how fast new editor IPC connections are
// accepted and parsed, so a misbehaving editor script cannot monopolize
// the single-threaded event loop by flooding it with connections.
type ConnectionLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewConnectionLimiter returns a limiter allowing requestsPerSecond
// sustained accepts with the given burst allowance.
func NewConnectionLimiter(requestsPerSecond float64, burst int) *ConnectionLimiter {
	return &ConnectionLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Allow reports whether a newly accepted connection should be parsed, or
// dropped immediately because the budget is exhausted.
func (c *ConnectionLimiter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limiter.Allow()
}

// DefaultConnectionLimiter returns the editor IPC endpoint's default
// budget: generous enough for a human toggling breakpoints, tight enough
// to stop a buggy script in a loop.
func DefaultConnectionLimiter() *ConnectionLimiter {
	return NewConnectionLimiter(20, 40)
}
