package gemini

import "sync"

// FallbackStoreID is the deterministic identifier synthesized when store
// listing/creation is unavailable. Caching it keeps the service degraded but
// available instead of re-attempting resolution on every call.
func FallbackStoreID(displayName string) string {
	return "stores/" + displayName
}

// storeCache memoizes resolved store identifiers per display name for the
// process lifetime. Each name moves unresolved -> cached-real or
// unresolved -> cached-fallback exactly once; both cached states are
// terminal (no expiry, no invalidation).
type storeCache struct {
	mu    sync.Mutex
	names map[string]string
}

func newStoreCache() *storeCache {
	return &storeCache{names: make(map[string]string)}
}

// Resolve returns the cached identifier for displayName, running resolve at
// most once per name. A resolve error or empty result degrades to the
// fallback identifier. Resolution runs without the lock held, so two callers
// racing on a cold name may both resolve; the first stored result wins and
// the results are consistent either way.
func (c *storeCache) Resolve(displayName string, resolve func() (string, error)) string {
	c.mu.Lock()
	if id, ok := c.names[displayName]; ok {
		c.mu.Unlock()
		return id
	}
	c.mu.Unlock()

	id, err := resolve()
	if err != nil || id == "" {
		id = FallbackStoreID(displayName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.names[displayName]; ok {
		return existing
	}
	c.names[displayName] = id
	return id
}
