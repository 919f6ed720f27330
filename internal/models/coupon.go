package models

import "time"

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	ID            int
	Code          string
	Description   string
	DiscountType  string
	DiscountValue float64
	MinOrderValue float64
	MaxDiscount   float64
	ValidFrom     time.Time
	ValidUntil    time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InWindow reports whether t falls inside the validity window.
// Both boundary instants count as inside.
func (c *Coupon) InWindow(t time.Time) bool {
	return !t.Before(c.ValidFrom) && !t.After(c.ValidUntil)
}

// DiscountFor computes the discount this coupon grants against the given
// subtotal. Percentage discounts are clamped to MaxDiscount; a MaxDiscount
// of zero means uncapped, not a cap of zero, and existing coupon rows rely
// on that. Fixed discounts never exceed the subtotal.
func (c *Coupon) DiscountFor(subtotal float64) float64 {
	if c.DiscountType == DiscountPercentage {
		d := subtotal * c.DiscountValue / 100
		if c.MaxDiscount > 0 && d > c.MaxDiscount {
			d = c.MaxDiscount
		}
		return d
	}
	d := c.DiscountValue
	if d > subtotal {
		d = subtotal
	}
	return d
}
