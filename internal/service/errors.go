package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

// CouponRejectedError carries the validation outcome when checkout was
// given a coupon that does not apply.
type CouponRejectedError struct {
	Result ValidationResult
}

func (e *CouponRejectedError) Error() string {
	return "coupon rejected: " + e.Result.Reason
}
