package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Contador por email con TTL: el primer INCR arma la ventana, los
// siguientes solo acumulan dentro de ella.
const otpCounterScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return hits
`

const otpKeyPrefix = "prepinter:otp:"

type redisOTPRateLimiter struct {
	client scriptRunner
	prefix string
	window time.Duration
	max    int
}

type scriptRunner interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisOTPRateLimiter limita los envios de OTP de recuperacion por email
// usando Redis, para que el limite aplique entre replicas del API.
func NewRedisOTPRateLimiter(client *redis.Client, window time.Duration, max int) OTPRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisOTPRateLimiter{
		client: client,
		prefix: otpKeyPrefix,
		window: window,
		max:    max,
	}
}

// Allow registra un intento para el email dado. Si Redis no responde
// deja pasar: preferimos un OTP de mas a bloquear la recuperacion.
func (l *redisOTPRateLimiter) Allow(email string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	ttlSeconds := int(l.window.Seconds())
	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}
	hits, err := l.client.Eval(ctx, otpCounterScript, []string{l.prefix + normalized}, ttlSeconds).Int()
	if err != nil {
		return true
	}
	return hits <= l.max
}
