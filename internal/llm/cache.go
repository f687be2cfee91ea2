package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheTTL   = 24 * time.Hour
	defaultSetTimeout = 5 * time.Second
	cacheKeyPrefix    = "llm:completion"
)

// CachedCompleter is a read-through cache in front of a Completer. Identical
// prompts in flight at the same time share one upstream call.
type CachedCompleter struct {
	next      Completer
	cache     Cacher
	namespace string
	ttl       time.Duration
	sfGroup   singleflight.Group
	logger    *zap.Logger
}

// NewCachedCompleter wraps next. namespace separates providers/models that
// would answer the same prompt differently.
func NewCachedCompleter(next Completer, cache Cacher, namespace string, ttl time.Duration, logger *zap.Logger) *CachedCompleter {
	if next == nil {
		panic("nil Completer provided to NewCachedCompleter")
	}
	if cache == nil {
		panic("nil Cacher provided to NewCachedCompleter")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCompleter{
		next:      next,
		cache:     cache,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger.Named("llm-cache"),
	}
}

// addTTLJitter adds up to ±30s random jitter to TTL to avoid mass expiration.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(rand.Intn(30)-15) * time.Second
	return ttl + jitter
}

func (c *CachedCompleter) key(prompt string) string {
	sum := sha256.Sum256([]byte(c.namespace + "\x00" + prompt))
	return cacheKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := c.key(prompt)

	var cached string
	err := c.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		c.logger.Debug("cache hit", zap.String("key", key))
		return cached, nil

	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", zap.String("key", key))

	default:
		c.logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := c.sfGroup.Do(key, func() (any, error) {
		text, err := c.next.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
		if text == "" {
			c.logger.Debug("empty completion not cached", zap.String("key", key))
			return text, nil
		}

		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultSetTimeout)
		defer cancel()

		ttl := addTTLJitter(c.ttl)
		if err := c.cache.Set(setCtx, key, text, ttl); err != nil {
			c.logger.Warn("failed to set cache on miss", zap.String("key", key), zap.Error(err))
		} else {
			c.logger.Debug("cache populated on miss", zap.String("key", key), zap.Duration("ttl", ttl))
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}

	if shared {
		c.logger.Debug("singleflight shared result", zap.String("key", key))
	}

	return v.(string), nil
}
