package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joushfoods/storefront-service/internal/models"
)

// UserRepo manages back-office accounts (the /admin/users surface).
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, password, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, password, role, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, u.Username, u.Password, u.Role).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET username=$1, password=$2, role=$3 WHERE id=$4
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Password, u.Role, u.ID).Scan(&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
