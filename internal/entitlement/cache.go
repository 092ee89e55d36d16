package entitlement

import "time"

// Cache holds a resolved tier and when it was fetched. It is replaced
// wholesale on re-validation; callers decide when it has expired.
type Cache struct {
	Tier      Tier
	FetchedAt time.Time
}

// NewCache records tier as fetched at now.
func NewCache(tier Tier, now time.Time) Cache {
	return Cache{Tier: tier, FetchedAt: now}
}

// Expired reports whether the cache is older than ttl at now. A zero cache is
// always expired.
func (c Cache) Expired(now time.Time, ttl time.Duration) bool {
	if c.FetchedAt.IsZero() {
		return true
	}
	return now.Sub(c.FetchedAt) >= ttl
}
