package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/nftmarket/base/ctx"
)

const (
	// Forever keeps the key without expiration
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoTTL is returned by TTL when the key has no expiration
	ErrNoTTL = errors.New("redis: key has no ttl")
	// ErrNoPool is returned when no pool is configured
	ErrNoPool = errors.New("redis: no pool")
)

// Pools represents different pool types
type Pools struct {
	Src *redis.Pool
}

// Service is the subset of redis commands used by the cache and the event publisher.
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	// TTL returns the remaining seconds of the key
	TTL(context ctx.Ctx, key string) (int, error)
	// Publish posts the message to the channel and returns the number of receivers
	Publish(context ctx.Ctx, channel string, message []byte) (int, error)
}
