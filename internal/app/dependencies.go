package app

import (
	"context"
	"errors"
	"time"

	validator "github.com/go-playground/validator/v10"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/paycalc/internal/config"
	"github.com/noah-isme/paycalc/internal/obs"
	"github.com/noah-isme/paycalc/internal/ratelimit"
)

// Dependencies enumerates the shared services the HTTP surface is built from.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Redis       *redis.Client
	Validator   *validator.Validate
	Limiter     ratelimit.Limiter
	HTTPMetrics *obs.HTTPMetrics
	Tracer      trace.Tracer
}

// NewLimiter picks the Redis sliding window when a client is available and an
// in-process limiter otherwise.
func NewLimiter(rdb *redis.Client) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.SlidingWindow{Client: rdb, Prefix: "paycalc:ratelimit:"}
	}
	return ratelimit.NewMemory()
}

// Tracer returns the default OpenTelemetry tracer for instrumentation hooks.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

type readinessChecker struct {
	redis *redis.Client
}

// PingRedis probes Redis within the given timeout.
func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}
