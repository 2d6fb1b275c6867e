package ratelimiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config describes one token bucket. A LimitPerSec of zero disables the
// limiter.
type Config struct {
	Key         string
	LimitPerSec float64
	BurstPerSec int
}

type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
}

type TokenBucketRateLimiter struct {
	limiter *rate.Limiter
}

func (t *TokenBucketRateLimiter) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

func (t *TokenBucketRateLimiter) Allow() bool {
	return t.limiter.Allow()
}

// Manager hands out one limiter per key.
type Manager struct {
	mu       sync.Mutex
	limiters map[string]*TokenBucketRateLimiter
}

func NewManager() *Manager {
	return &Manager{
		limiters: make(map[string]*TokenBucketRateLimiter),
	}
}

// GetRateLimiter retrieves or creates a rate limiter based on the key.
// The config of an existing limiter is not updated.
func (m *Manager) GetRateLimiter(config Config) *TokenBucketRateLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, exists := m.limiters[config.Key]; exists {
		return limiter
	}

	limit := rate.Limit(config.LimitPerSec)
	if config.LimitPerSec <= 0 {
		limit = rate.Inf
	}
	newLimiter := &TokenBucketRateLimiter{
		limiter: rate.NewLimiter(limit, config.BurstPerSec),
	}
	m.limiters[config.Key] = newLimiter

	return newLimiter
}

// Len returns the number of limiters handed out.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}
