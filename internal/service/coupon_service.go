package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joushfoods/storefront-service/internal/cache"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
)

// Repo required by the service (interface to allow mocking).
type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// Rejection reasons surfaced to clients.
const (
	ReasonNotFound    = "not_found"
	ReasonInactive    = "inactive"
	ReasonNotInWindow = "not_in_window"
	ReasonMinOrder    = "min_order_not_met"
)

type ValidationResult struct {
	Valid         bool
	Reason        string
	MinOrderValue float64
	Coupon        *models.Coupon
	Discount      float64
}

// CouponService evaluates coupon codes against a cart subtotal.
type CouponService struct {
	repo  CouponReader
	cache *cache.CouponCache
	now   func() time.Time
}

func NewCouponService(repo CouponReader, c *cache.CouponCache) *CouponService {
	return &CouponService{
		repo:  repo,
		cache: c,
		now:   time.Now,
	}
}

// Validate checks a code against the active flag, the validity window and
// the minimum order value, then computes the discount. cartTotal is
// optional; without it only eligibility is checked and no discount or
// minimum-order rejection is produced.
func (s *CouponService) Validate(ctx context.Context, code string, cartTotal *float64) (ValidationResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, ok := s.cache.Get(code)
	if !ok {
		m, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ValidationResult{Reason: ReasonNotFound}, nil
			}
			return ValidationResult{}, err
		}
		coupon = *m
		s.cache.Set(coupon)
	}

	if !coupon.IsActive {
		return ValidationResult{Reason: ReasonInactive}, nil
	}
	if !coupon.InWindow(s.now().UTC()) {
		return ValidationResult{Reason: ReasonNotInWindow}, nil
	}
	if cartTotal != nil && *cartTotal < coupon.MinOrderValue {
		return ValidationResult{
			Reason:        ReasonMinOrder,
			MinOrderValue: coupon.MinOrderValue,
		}, nil
	}

	res := ValidationResult{Valid: true, Coupon: &coupon}
	if cartTotal != nil {
		res.Discount = coupon.DiscountFor(*cartTotal)
	}
	return res, nil
}
