package roles

import (
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// cachedMembers wraps a role's member list with version metadata for invalidation
type cachedMembers struct {
	Version  string
	Members  []domain.UserRef
	CachedAt time.Time
}

// memberCache holds role member lists with time-based expiration
type memberCache struct {
	lru *expirable.LRU[domain.ChannelRole, *cachedMembers]
}

func newMemberCache(size int, ttl time.Duration) *memberCache {
	if size < 1 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &memberCache{
		lru: expirable.NewLRU[domain.ChannelRole, *cachedMembers](size, nil, ttl),
	}
}

// Get returns a copy of the cached members. Entries from an older schema are dropped.
func (c *memberCache) Get(role domain.ChannelRole) ([]domain.UserRef, bool) {
	entry, found := c.lru.Get(role)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(role)
		return nil, false
	}
	return slices.Clone(entry.Members), true
}

func (c *memberCache) Set(role domain.ChannelRole, members []domain.UserRef) {
	c.lru.Add(role, &cachedMembers{
		Version:  CacheSchemaVersion,
		Members:  slices.Clone(members),
		CachedAt: time.Now(),
	})
}

func (c *memberCache) Invalidate(role domain.ChannelRole) {
	c.lru.Remove(role)
}

func (c *memberCache) Clear() {
	c.lru.Purge()
}
