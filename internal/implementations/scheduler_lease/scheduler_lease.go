package schedulerlease

import (
	"context"
	"errors"
	"fmt"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"time"

	"github.com/go-redis/redis/v9"
)

// Deletes the key only while it still holds our token, so an expired lease
// taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	key         string
	token       string
	ttl         time.Duration
}

func NewRedis(
	redisClient *redis.Client,
	log logging.Logger,
	key string,
	token string,
	ttl time.Duration,
) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if key == "" || token == "" {
		panic(e.NewInvalidArgumentError("key", "lease key and token must not be empty"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidArgumentError("ttl", "lease TTL must be positive"))
	}
	return &Redis{redisClient: redisClient, log: log, key: key, token: token, ttl: ttl}
}

func (r *Redis) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, r.key, r.token, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("could not acquire scheduler lease: %w", err)
	}
	if !ok {
		r.log.Debug(ctx, "Scheduler lease is held by another instance.", logging.Entry("key", r.key))
	}
	return ok, nil
}

func (r *Redis) Extend(ctx context.Context) (bool, error) {
	extended, err := extendScript.Run(ctx, r.redisClient, []string{r.key}, r.token, r.ttl.Milliseconds()).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("could not extend scheduler lease: %w", err)
	}
	if extended != 1 {
		r.log.Warning(ctx, "Scheduler lease is no longer held.", logging.Entry("key", r.key))
		return false, nil
	}
	return true, nil
}

func (r *Redis) Release(ctx context.Context) error {
	err := releaseScript.Run(ctx, r.redisClient, []string{r.key}, r.token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("could not release scheduler lease: %w", err)
	}
	return nil
}

// Local is used when no Redis is configured: a single process owns the
// scheduler, so the lease is only guarded against overlapping cycles.
type Local struct {
	held chan struct{}
}

func NewLocal() *Local {
	return &Local{held: make(chan struct{}, 1)}
}

func (l *Local) TryAcquire(ctx context.Context) (bool, error) {
	select {
	case l.held <- struct{}{}:
		return true, nil
	default:
		return false, nil
	}
}

func (l *Local) Extend(ctx context.Context) (bool, error) {
	return len(l.held) == 1, nil
}

func (l *Local) Release(ctx context.Context) error {
	select {
	case <-l.held:
	default:
	}
	return nil
}
