package models

import (
	"testing"
	"time"
)

func TestDiscountForPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		cap      float64
		subtotal float64
		want     float64
	}{
		{"under cap", 20, 200, 500, 100},
		{"clamped to cap", 20, 200, 1200, 200},
		{"zero cap means uncapped", 20, 0, 5000, 1000},
		{"exactly at cap", 20, 200, 1000, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coupon{DiscountType: DiscountPercentage, DiscountValue: tt.value, MaxDiscount: tt.cap}
			if got := c.DiscountFor(tt.subtotal); got != tt.want {
				t.Errorf("DiscountFor(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestDiscountForFixed(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		subtotal float64
		want     float64
	}{
		{"under subtotal", 50, 300, 50},
		{"clamped to subtotal", 50, 30, 30},
		{"equal to subtotal", 50, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coupon{DiscountType: DiscountFixed, DiscountValue: tt.value}
			if got := c.DiscountFor(tt.subtotal); got != tt.want {
				t.Errorf("DiscountFor(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestInWindowBoundariesInclusive(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	c := Coupon{ValidFrom: from, ValidUntil: until}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before window", from.Add(-time.Second), false},
		{"at validFrom", from, true},
		{"inside", from.AddDate(0, 0, 15), true},
		{"at validUntil", until, true},
		{"after window", until.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.InWindow(tt.t); got != tt.want {
				t.Errorf("InWindow(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
