package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joushfoods/storefront-service/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponCols = `id, code, description, discount_type, discount_value,
	min_order_value, max_discount, valid_from, valid_until, is_active,
	created_at, updated_at`

func scanCoupon(row interface{ Scan(...any) error }) (models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderValue,
		&c.MaxDiscount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *CouponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+couponCols+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepo) GetByID(ctx context.Context, id int) (*models.Coupon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+couponCols+` FROM coupons WHERE id = $1`, id)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByCode looks up by exact (already uppercased) code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+couponCols+` FROM coupons WHERE code = $1`, code)
	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons
		(code, description, discount_type, discount_value, min_order_value,
		 max_discount, valid_from, valid_until, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Code, c.Description, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if uniqueViolation(err) {
		return ErrCodeTaken
	}
	return err
}

func (r *CouponRepo) Update(ctx context.Context, c *models.Coupon) error {
	query := `
		UPDATE coupons
		SET code=$1, description=$2, discount_type=$3, discount_value=$4,
		    min_order_value=$5, max_discount=$6, valid_from=$7, valid_until=$8,
		    is_active=$9, updated_at=NOW()
		WHERE id=$10
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Code, c.Description, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.IsActive, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if uniqueViolation(err) {
		return ErrCodeTaken
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *CouponRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
