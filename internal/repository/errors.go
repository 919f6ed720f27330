package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrCodeTaken  = errors.New("coupon code already exists")
)

// uniqueViolation reports whether err is the Postgres unique_violation
// error class (23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
