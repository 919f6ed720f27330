package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
)

type fakeCustomerRepo struct {
	byEmail map[string]models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byEmail: map[string]models.Customer{}}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if _, ok := f.byEmail[c.Email]; ok {
		return repository.ErrEmailTaken
	}
	c.ID = len(f.byEmail) + 1
	f.byEmail[c.Email] = *c
	return nil
}

func (f *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	c, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func testAuth(t *testing.T, ttl time.Duration) (*AuthService, *fakeCustomerRepo) {
	t.Helper()
	repo := newFakeCustomerRepo()
	return NewAuthService(repo, config.Config{
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		JWTSecret:     "test-secret",
		SessionTTL:    ttl,
	}), repo
}

func TestAdminLoginIssuesVerifiableToken(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)

	token, err := auth.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if err := auth.VerifyAdminToken(token); err != nil {
		t.Errorf("VerifyAdminToken: %v", err)
	}
}

func TestAdminLoginBadCredentials(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)

	for _, cred := range [][2]string{
		{"admin", "wrong"},
		{"nobody", "hunter2"},
		{"", ""},
	} {
		if _, err := auth.AdminLogin(cred[0], cred[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("AdminLogin(%q, %q) err = %v, want ErrInvalidCredentials", cred[0], cred[1], err)
		}
	}
}

func TestVerifyAdminTokenRejectsExpired(t *testing.T) {
	auth, _ := testAuth(t, -time.Minute)

	token, err := auth.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if err := auth.VerifyAdminToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyAdminTokenRejectsGarbage(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)

	for _, tok := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if err := auth.VerifyAdminToken(tok); err == nil {
			t.Errorf("VerifyAdminToken(%q) accepted", tok)
		}
	}
}

func TestVerifyAdminTokenRejectsForeignSecret(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)
	other, _ := testAuth(t, time.Hour)
	other.secret = []byte("different-secret")

	token, err := other.AdminLogin("admin", "hunter2")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if err := auth.VerifyAdminToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestRegisterCustomerHashesPassword(t *testing.T) {
	auth, repo := testAuth(t, time.Hour)

	c := models.Customer{Name: "Asha", Email: "asha@example.com", Phone: "9999", Address: "12 MG Road"}
	if err := auth.RegisterCustomer(context.Background(), &c, "s3cret"); err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}

	stored := repo.byEmail["asha@example.com"]
	if stored.Password == "s3cret" || stored.Password == "" {
		t.Fatal("password stored in plaintext or empty")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret")) != nil {
		t.Error("stored hash does not match password")
	}
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)

	first := models.Customer{Name: "Asha", Email: "asha@example.com"}
	if err := auth.RegisterCustomer(context.Background(), &first, "s3cret"); err != nil {
		t.Fatalf("first RegisterCustomer: %v", err)
	}
	second := models.Customer{Name: "Another", Email: "asha@example.com"}
	err := auth.RegisterCustomer(context.Background(), &second, "other")
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginCustomer(t *testing.T) {
	auth, _ := testAuth(t, time.Hour)

	c := models.Customer{Name: "Asha", Email: "asha@example.com"}
	if err := auth.RegisterCustomer(context.Background(), &c, "s3cret"); err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}

	got, err := auth.LoginCustomer(context.Background(), "asha@example.com", "s3cret")
	if err != nil {
		t.Fatalf("LoginCustomer: %v", err)
	}
	if got.Email != "asha@example.com" {
		t.Errorf("Email = %q", got.Email)
	}

	if _, err := auth.LoginCustomer(context.Background(), "asha@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := auth.LoginCustomer(context.Background(), "ghost@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}
