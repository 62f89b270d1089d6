package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/orbit/pkg/observability"
)

// Observed reports the traffic of an inner cache to the observability
// hooks, labelled by [KeyType].
type Observed struct {
	inner Cache
}

// Observe wraps c. Wrapping an already observed cache returns it unchanged.
func Observe(c Cache) Cache {
	if o, ok := c.(*Observed); ok {
		return o
	}
	return &Observed{inner: c}
}

// Get forwards to the inner cache and records a hit or miss. Backend errors
// count as misses.
func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.inner.Get(ctx, key)
	if ok && err == nil {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, ok, err
}

// Set forwards to the inner cache and records successful writes.
func (o *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// Delete forwards to the inner cache.
func (o *Observed) Delete(ctx context.Context, key string) error {
	return o.inner.Delete(ctx, key)
}

// Close closes the inner cache.
func (o *Observed) Close() error {
	return o.inner.Close()
}

// GetJSON looks up key and decodes it into v. A corrupt entry is deleted and
// reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
