package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
)

type CustomerRepo interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// AuthService covers both identities: the back-office admin, which gets a
// short-lived signed session token at login, and storefront customers,
// which get their record back and nothing else.
type AuthService struct {
	customers CustomerRepo
	adminUser string
	adminPass string
	secret    []byte
	ttl       time.Duration
}

func NewAuthService(customers CustomerRepo, cfg config.Config) *AuthService {
	return &AuthService{
		customers: customers,
		adminUser: cfg.AdminUsername,
		adminPass: cfg.AdminPassword,
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.SessionTTL,
	}
}

// AdminLogin checks the configured credentials and issues an HS256 session
// token. Tokens are stateless; expiry is the only revocation.
func (a *AuthService) AdminLogin(username, password string) (string, error) {
	if username != a.adminUser || password != a.adminPass {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(a.ttl).Unix(),
	})
	return t.SignedString(a.secret)
}

// VerifyAdminToken validates signature, expiry and the admin role claim.
func (a *AuthService) VerifyAdminToken(tokenString string) error {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method)
		}
		return a.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid || claims["role"] != "admin" {
		return errors.New("invalid token")
	}
	return nil
}

// RegisterCustomer hashes the password and inserts the row. A duplicate
// email surfaces as repository.ErrEmailTaken.
func (a *AuthService) RegisterCustomer(ctx context.Context, c *models.Customer, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Password = string(hash)
	return a.customers.Create(ctx, c)
}

// LoginCustomer fetches by email and compares hashes. Unknown email and
// wrong password collapse into the same error on purpose.
func (a *AuthService) LoginCustomer(ctx context.Context, email, password string) (*models.Customer, error) {
	c, err := a.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}
