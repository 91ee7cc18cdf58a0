package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Versioned caches JSON payloads under keys suffixed with a namespace version.
// Bumping the version orphans every key of the namespace at once; orphans age
// out through the TTL. A nil client turns every call into a passthrough.
type Versioned struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewVersioned builds a cache for one namespace such as "settings" or "reports".
func NewVersioned(client *redis.Client, namespace string, ttl time.Duration, logger *slog.Logger) *Versioned {
	if logger == nil {
		logger = slog.Default()
	}
	return &Versioned{client: client, namespace: namespace, ttl: ttl, logger: logger}
}

func (c *Versioned) enabled() bool {
	return c != nil && c.client != nil
}

func (c *Versioned) versionKey() string {
	return "billing:" + c.namespace + ":version"
}

// Version returns the current namespace version, initialising it when missing.
func (c *Versioned) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		ok, err := c.client.SetNX(ctx, c.versionKey(), 1, 0).Result()
		if err != nil {
			return 0, err
		}
		if ok {
			return 1, nil
		}
		return c.client.Get(ctx, c.versionKey()).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a key from parts and the current version.
func (c *Versioned) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := "billing:" + c.namespace
	if len(parts) > 0 {
		joined += ":" + strings.Join(parts, ":")
	}
	if !c.enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON decodes the cached value at the versioned key for parts into dest,
// or runs loader, stores its result and decodes that. Redis failures degrade
// to calling loader directly.
func FetchJSON[T any](ctx context.Context, c *Versioned, dest *T, loader func(context.Context) (T, error), parts ...string) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if !c.enabled() {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		*dest = value
		return nil
	}

	key, err := c.BuildKey(ctx, parts...)
	if err != nil {
		c.logger.Warn("cache version unavailable", slog.String("namespace", c.namespace), slog.Any("error", err))
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		*dest = value
		return nil
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(payload, dest); err == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	*dest = value
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return nil
}

// Bump invalidates the namespace by incrementing its version.
func (c *Versioned) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, c.versionKey()).Err()
}
