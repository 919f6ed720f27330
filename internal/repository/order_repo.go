package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/joushfoods/storefront-service/internal/concurrency"
	"github.com/joushfoods/storefront-service/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderCols = `id, reference, customer_id, status, subtotal, discount, total,
	coupon_code, name, email, phone, address, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var (
		o      models.Order
		coupon sql.NullString
	)
	err := row.Scan(
		&o.ID,
		&o.Reference,
		&o.CustomerID,
		&o.Status,
		&o.Subtotal,
		&o.Discount,
		&o.Total,
		&coupon,
		&o.Name,
		&o.Email,
		&o.Phone,
		&o.Address,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	o.CouponCode = coupon.String
	return o, err
}

// CreateWithItems inserts the order and all of its items in one
// transaction. A failed item insert rolls back the order row: an order
// never exists without its items.
func (r *OrderRepo) CreateWithItems(ctx context.Context, o *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertOrder := `
		INSERT INTO orders
		(reference, customer_id, status, subtotal, discount, total, coupon_code,
		 name, email, phone, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, insertOrder,
		o.Reference, o.CustomerID, o.Status, o.Subtotal, o.Discount, o.Total,
		nullable(o.CouponCode), o.Name, o.Email, o.Phone, o.Address,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID int, items []models.OrderItem) error {
	stmt := `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1,$2,$3,$4) RETURNING id`
	for i := range items {
		if err := tx.QueryRowContext(ctx, stmt,
			orderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice,
		).Scan(&items[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns all orders, newest first, with items attached. Item rows
// for distinct orders are loaded with a small worker fan-out.
func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	concurrency.ForEach(ctx, 4, len(orders), func(ctx context.Context, i int) {
		items, err := r.itemsFor(ctx, orders[i].ID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil && firstErr == nil {
			firstErr = err
			return
		}
		orders[i].Items = items
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return orders, nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price,
		       p.id, p.name, p.description, p.image, p.price, p.category, p.veg, p.slug,
		       p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var (
			it models.OrderItem
			p  models.Product
		)
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.Category, &p.Veg, &p.Slug,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateWithItems updates the order row and, when items is non-nil,
// replaces the item set. Runs in one transaction.
func (r *OrderRepo) UpdateWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updateOrder := `
		UPDATE orders
		SET customer_id=$1, status=$2, subtotal=$3, discount=$4, total=$5,
		    coupon_code=$6, name=$7, email=$8, phone=$9, address=$10, updated_at=NOW()
		WHERE id=$11
		RETURNING updated_at
	`
	err = tx.QueryRowContext(ctx, updateOrder,
		o.CustomerID, o.Status, o.Subtotal, o.Discount, o.Total,
		nullable(o.CouponCode), o.Name, o.Email, o.Phone, o.Address, o.ID,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if items != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, o.ID, items); err != nil {
			return err
		}
		o.Items = items
	}

	return tx.Commit()
}

func (r *OrderRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
