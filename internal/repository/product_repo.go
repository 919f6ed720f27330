package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joushfoods/storefront-service/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productCols = `id, name, description, image, price, category, veg, slug, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.Price,
		&p.Category,
		&p.Veg,
		&p.Slug,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetBySlugOrID resolves the public product key: slug match first, then
// a numeric id when the key parses as one.
func (r *ProductRepo) GetBySlugOrID(ctx context.Context, key string, id int, haveID bool) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE slug = $1`, key)
	p, err := scanProduct(row)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if !haveID {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, description, image, price, category, veg, slug, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Image, p.Price, p.Category, p.Veg, p.Slug,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name=$1, description=$2, image=$3, price=$4, category=$5, veg=$6, slug=$7, updated_at=NOW()
		WHERE id=$8
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Image, p.Price, p.Category, p.Veg, p.Slug, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *ProductRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
