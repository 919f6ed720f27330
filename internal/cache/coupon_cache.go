package cache

import (
	"sync"
	"time"

	"github.com/joushfoods/storefront-service/internal/models"
)

type entry struct {
	coupon  models.Coupon
	expires time.Time
}

// CouponCache keeps validated coupons hot by code. Entries age out after
// the TTL; admin writes must call Invalidate so stale discounts are never
// served between edits.
type CouponCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	store map[string]entry
}

func NewCouponCache(ttl time.Duration) *CouponCache {
	return &CouponCache{
		ttl:   ttl,
		store: make(map[string]entry),
	}
}

func (c *CouponCache) Get(code string) (models.Coupon, bool) {
	c.mu.RLock()
	e, ok := c.store[code]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return models.Coupon{}, false
	}
	return e.coupon, true
}

func (c *CouponCache) Set(coupon models.Coupon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[coupon.Code] = entry{coupon: coupon, expires: time.Now().Add(c.ttl)}
}

func (c *CouponCache) Invalidate(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, code)
}
