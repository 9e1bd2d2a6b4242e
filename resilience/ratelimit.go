// Package resilience provides rate limiting, circuit breaking, and
// retry backoff for launch pipelines.
package resilience

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter controls how often a file name may be launched.
type RateLimiter interface {
	// Allow checks if a launch is allowed for the given file name.
	Allow(fileName string) bool

	// Wait blocks until a launch is allowed or the context is canceled.
	Wait(ctx context.Context, fileName string) error

	// SetLimit updates the rate limit for a file name.
	SetLimit(fileName string, limit rate.Limit, burst int)
}

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// DefaultLimit is the default launches per second.
	DefaultLimit float64

	// DefaultBurst is the default burst size.
	DefaultBurst int

	// PerFileName enables per-file-name rate limiting.
	PerFileName bool

	// FileLimits contains per-file-name rate limits.
	FileLimits map[string]FileLimit
}

// FileLimit defines the rate limit for a specific file name.
type FileLimit struct {
	Limit float64
	Burst int
}

// DefaultRateLimiterConfig returns default configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultLimit: 50,
		DefaultBurst: 75,
		PerFileName:  true,
		FileLimits:   make(map[string]FileLimit),
	}
}

// rateLimiter implements RateLimiter.
type rateLimiter struct {
	config        RateLimiterConfig
	globalLimiter *rate.Limiter
	fileLimiters  map[string]*rate.Limiter
	mu            sync.RWMutex
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) RateLimiter {
	rl := &rateLimiter{
		config:        config,
		globalLimiter: rate.NewLimiter(rate.Limit(config.DefaultLimit), config.DefaultBurst),
		fileLimiters:  make(map[string]*rate.Limiter),
	}

	for fileName, limit := range config.FileLimits {
		rl.fileLimiters[fileName] = rate.NewLimiter(rate.Limit(limit.Limit), limit.Burst)
	}

	return rl
}

// Allow implements RateLimiter.Allow.
func (rl *rateLimiter) Allow(fileName string) bool {
	if !rl.config.PerFileName {
		return rl.globalLimiter.Allow()
	}

	return rl.getLimiter(fileName).Allow()
}

// Wait implements RateLimiter.Wait.
func (rl *rateLimiter) Wait(ctx context.Context, fileName string) error {
	if !rl.config.PerFileName {
		return rl.globalLimiter.Wait(ctx)
	}

	return rl.getLimiter(fileName).Wait(ctx)
}

// SetLimit implements RateLimiter.SetLimit.
func (rl *rateLimiter) SetLimit(fileName string, limit rate.Limit, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.fileLimiters[fileName]; ok {
		limiter.SetLimit(limit)
		limiter.SetBurst(burst)
	} else {
		rl.fileLimiters[fileName] = rate.NewLimiter(limit, burst)
	}
}

func (rl *rateLimiter) getLimiter(fileName string) *rate.Limiter {
	rl.mu.RLock()
	limiter, ok := rl.fileLimiters[fileName]
	rl.mu.RUnlock()

	if ok {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if existing, ok := rl.fileLimiters[fileName]; ok {
		return existing
	}

	newLimiter := rate.NewLimiter(rate.Limit(rl.config.DefaultLimit), rl.config.DefaultBurst)
	rl.fileLimiters[fileName] = newLimiter
	return newLimiter
}
