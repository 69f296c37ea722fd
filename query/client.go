// Package query caches endpoint results, de-duplicates in-flight
// requests per key, and is the single place where mutation outcomes
// become user-visible notifications.
package query

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sensesdx/portalkit/core"
)

const (
	defaultRetries    = 5
	defaultRetryDelay = 1500 * time.Millisecond
)

type Config struct {
	Cache    core.Cache
	Notifier core.Notifier

	// Optional config
	Retries    int // query retries after the first attempt
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type Client struct {
	cache      core.Cache
	notifier   core.Notifier
	group      singleflight.Group
	retries    int
	retryDelay time.Duration
	log        *zap.Logger

	// replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config) *Client {
	retries := cfg.Retries
	if retries == 0 {
		retries = defaultRetries
	}
	delay := cfg.RetryDelay
	if delay == 0 {
		delay = defaultRetryDelay
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		cache:      cfg.Cache,
		notifier:   cfg.Notifier,
		retries:    retries,
		retryDelay: delay,
		log:        log,
		sleep:      sleepContext,
	}
}

type (
	scopeKey    struct{}
	notifierKey struct{}
)

// WithScope namespaces every key touched through ctx, so gateway
// sessions never share cache entries or flights.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func scopeFrom(ctx context.Context) string {
	scope, _ := ctx.Value(scopeKey{}).(string)
	return scope
}

// WithNotifier redirects this call's notifications, e.g. into a
// per-request recorder whose events ride back in the HTTP response.
func WithNotifier(ctx context.Context, n core.Notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}

func (c *Client) notify(ctx context.Context) core.Notifier {
	if n, ok := ctx.Value(notifierKey{}).(core.Notifier); ok {
		return n
	}
	return c.notifier
}

// Fetch returns the cached value for key when it is present and not
// stale; otherwise it runs fn, retrying per policy, with at most one
// network flight per key regardless of concurrent callers.
func Fetch[T any](ctx context.Context, c *Client, key string, fn func(context.Context) (T, error)) (T, error) {
	scoped := Scoped(scopeFrom(ctx), key)
	if entry, err := c.cache.Get(scoped); err == nil && !entry.Stale {
		var cached T
		if err := json.Unmarshal(entry.Data, &cached); err == nil {
			return cached, nil
		}
		// unreadable entry, fall through to a fresh fetch
		_ = c.cache.Delete(scoped)
	}
	return Refetch(ctx, c, key, fn)
}

// Refetch forces a fresh request for key, ignoring cache freshness.
// Concurrent identical calls still share one flight.
func Refetch[T any](ctx context.Context, c *Client, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	key = Scoped(scopeFrom(ctx), key)
	raw, err, _ := c.group.Do(key, func() (any, error) {
		data, err := c.fetchWithRetry(ctx, key, func(ctx context.Context) (any, error) {
			return fn(ctx)
		})
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		if cerr := c.cache.Set(key, &core.CacheEntry{Data: encoded, FetchedAt: time.Now()}); cerr != nil {
			c.log.Warn("cache set failed", zap.String("key", key), zap.Error(cerr))
		}
		return encoded, nil
	})
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal(raw.([]byte), &result); err != nil {
		return zero, err
	}
	return result, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return nil, lastErr
			}
			c.log.Debug("retrying query", zap.String("key", key), zap.Int("attempt", attempt))
		}
		data, err := fn(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Notify exposes the notification sink, so the session controller can
// route its own messages through the same path as mutations.
func (c *Client) Notify() core.Notifier {
	return c.notifier
}

// Invalidate marks every cached key under the given prefixes stale, so
// the next read re-fetches.
func (c *Client) Invalidate(prefixes ...string) {
	for _, p := range prefixes {
		if err := c.cache.MarkStale(p); err != nil {
			c.log.Warn("cache invalidation failed", zap.String("prefix", p), zap.Error(err))
		}
	}
}

// Hooks describe what happens around a mutation: which cached key
// families it makes stale and what the operator should see.
type Hooks struct {
	Invalidates []string
	OnSuccess   string // success notification text
	OnError     string // fallback when the failure has no message
}

// Mutate runs fn once (mutations are never auto-retried). Invalidation
// is applied before the success notification is emitted, so an
// operator reacting to the notification can never read stale data.
func Mutate[T any](ctx context.Context, c *Client, hooks Hooks, fn func(context.Context) (T, error)) (T, error) {
	result, err := fn(ctx)
	if err != nil {
		c.notify(ctx).Error(errorMessage(err, hooks.OnError))
		var zero T
		return zero, err
	}

	scope := scopeFrom(ctx)
	for _, prefix := range hooks.Invalidates {
		if err := c.cache.MarkStale(Scoped(scope, prefix)); err != nil {
			c.log.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
	c.notify(ctx).Success(hooks.OnSuccess)
	return result, nil
}

func errorMessage(err error, fallback string) string {
	if apiErr := core.NormalizeError(err); apiErr != nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
