package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joushfoods/storefront-service/internal/models"
)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address, password, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Email, c.Phone, c.Address, c.Password,
	).Scan(&c.ID, &c.CreatedAt)
	if uniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT id, name, email, phone, address, password, created_at FROM customers WHERE email = $1`
	var c models.Customer
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Password, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
