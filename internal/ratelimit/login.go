package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/folio/internal/config"
)

const (
	keyLoginEmail = "auth:login:email:%s"
	keyLoginIP    = "auth:login:ip:%s"

	// One attempt every 12 seconds sustained, 5 back to back.
	loginRate  = 1.0 / 12.0
	loginBurst = 5
)

// LoginLimiter throttles login attempts per email and per client IP. A nil
// or unconfigured limiter allows everything, so single-instance deployments
// run without redis.
type LoginLimiter struct {
	enabled bool
	bucket  *TokenBucket
}

func NewLoginLimiter(cfg config.Config) *LoginLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return &LoginLimiter{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	return &LoginLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *LoginLimiter) AllowEmail(ctx context.Context, email string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyLoginEmail, email), loginRate, loginBurst)
}

func (l *LoginLimiter) AllowIP(ctx context.Context, ip string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyLoginIP, ip), loginRate, loginBurst)
}
