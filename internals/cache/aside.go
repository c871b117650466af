package cache

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const DefaultTTL = 300 * time.Second

// Aside wraps read queries with a keyed, TTL-bound lookup.
type Aside struct {
	Store Store
	TTL   time.Duration
}

func New(store Store, ttl time.Duration) *Aside {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aside{Store: store, TTL: ttl}
}

// Key joins an entity name with its scope parts. Empty parts become "all".
//
//	Key("certificates", schoolID, "")  -> "certificates:<schoolID>:all"
func Key(entity string, parts ...string) string {
	var b strings.Builder
	b.WriteString(entity)
	for _, p := range parts {
		b.WriteByte(':')
		if p = strings.TrimSpace(p); p == "" {
			p = "all"
		}
		b.WriteString(p)
	}
	return b.String()
}

// Prefix is Key with a trailing separator, for dropping every filter variant of a scope.
func Prefix(entity string, parts ...string) string {
	return Key(entity, parts...) + ":"
}

// Remember returns the cached value under key, or runs load, stores its
// result for a.TTL and returns it. Backend failures fall through to load.
func Remember[T any](ctx context.Context, a *Aside, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if a == nil || a.Store == nil {
		return load(ctx)
	}

	raw, ok, err := a.Store.Get(ctx, key)
	switch {
	case err != nil:
		requestsTotal.WithLabelValues("error").Inc()
		log.Printf("[CACHE] get %s: %v", key, err)
	case ok:
		var out T
		if err := sonic.Unmarshal(raw, &out); err == nil {
			requestsTotal.WithLabelValues("hit").Inc()
			return out, nil
		} else {
			requestsTotal.WithLabelValues("error").Inc()
			log.Printf("[CACHE] decode %s: %v", key, err)
		}
	default:
		requestsTotal.WithLabelValues("miss").Inc()
	}

	val, err := load(ctx)
	if err != nil {
		return val, err
	}

	buf, err := sonic.Marshal(val)
	if err != nil {
		log.Printf("[CACHE] encode %s: %v", key, err)
		return val, nil
	}
	if err := a.Store.Set(ctx, key, buf, a.TTL); err != nil {
		log.Printf("[CACHE] set %s: %v", key, err)
	}
	return val, nil
}

// Forget drops exact keys after a write.
func (a *Aside) Forget(ctx context.Context, keys ...string) {
	if a == nil || a.Store == nil || len(keys) == 0 {
		return
	}
	if err := a.Store.Del(ctx, keys...); err != nil {
		log.Printf("[CACHE] del %v: %v", keys, err)
		return
	}
	invalidationsTotal.Add(float64(len(keys)))
}

// ForgetPrefix drops every key under the given prefixes.
func (a *Aside) ForgetPrefix(ctx context.Context, prefixes ...string) {
	if a == nil || a.Store == nil {
		return
	}
	for _, p := range prefixes {
		if err := a.Store.DelPrefix(ctx, p); err != nil {
			log.Printf("[CACHE] del prefix %s: %v", p, err)
			continue
		}
		invalidationsTotal.Inc()
	}
}
