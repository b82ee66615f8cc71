package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aureeture/aureeture-api/pkg/identity"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const (
	identityKeyPrefix  = "identity:user:"
	identityCacheSweep = 1 * time.Minute
)

// IdentityCache is a lazy TTL cache over identity-provider user lookups.
// It exists to keep per-request auth from hitting the provider API on
// every call; a stale name or avatar for a few minutes is acceptable.
type IdentityCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewIdentityCache creates an identity user cache with the given TTL
func NewIdentityCache(ttlSeconds int) *IdentityCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &IdentityCache{
		cache: gocache.New(ttl, identityCacheSweep),
		ttl:   ttl,
	}
}

// Get returns a cached identity user, or nil on miss
func (ic *IdentityCache) Get(userID string) *identity.User {
	data, found := ic.cache.Get(identityKeyPrefix + userID)
	if !found {
		metrics.CacheMisses.WithLabelValues("identity_user").Inc()
		return nil
	}

	user, ok := data.(*identity.User)
	if !ok {
		ic.cache.Delete(identityKeyPrefix + userID)
		metrics.CacheMisses.WithLabelValues("identity_user").Inc()
		return nil
	}

	metrics.CacheHits.WithLabelValues("identity_user").Inc()
	return user
}

// Set stores an identity user under the configured TTL
func (ic *IdentityCache) Set(user *identity.User) {
	if user == nil || user.ID == "" {
		return
	}
	ic.cache.Set(identityKeyPrefix+user.ID, user, ic.ttl)
	metrics.CacheSize.WithLabelValues("identity_users").Set(float64(ic.cache.ItemCount()))
}

// Invalidate drops a cached user, e.g. after a profile update
func (ic *IdentityCache) Invalidate(userID string) {
	ic.cache.Delete(identityKeyPrefix + userID)
}
