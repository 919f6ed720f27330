package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joushfoods/storefront-service/internal/config"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

type stubCustomerRepo struct {
	byEmail map[string]*models.Customer
	nextID  int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byEmail: make(map[string]*models.Customer), nextID: 1}
}

func (s *stubCustomerRepo) Create(_ context.Context, c *models.Customer) error {
	if _, ok := s.byEmail[c.Email]; ok {
		return repository.ErrEmailTaken
	}
	c.ID = s.nextID
	s.nextID++
	cp := *c
	s.byEmail[c.Email] = &cp
	return nil
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	c, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func newCustomerHandler() (*CustomerHandler, *stubCustomerRepo) {
	repo := newStubCustomerRepo()
	auth := service.NewAuthService(repo, config.Config{
		AdminUsername: "admin",
		AdminPassword: "password",
		JWTSecret:     "test-secret",
	})
	return NewCustomerHandler(auth), repo
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

const registerBody = `{"name":"Asha","email":"asha@example.com","phone":"9999999999","address":"12 MG Road","password":"s3cret"}`

func TestRegisterCreatesCustomer(t *testing.T) {
	h, repo := newCustomerHandler()

	rec := postJSON(t, h.Register, "/api/customers/register", registerBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Registration successful." {
		t.Errorf("message = %q", resp["message"])
	}

	stored := repo.byEmail["asha@example.com"]
	if stored == nil {
		t.Fatal("customer not stored")
	}
	if stored.Password == "s3cret" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newCustomerHandler()

	if rec := postJSON(t, h.Register, "/api/customers/register", registerBody); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}
	rec := postJSON(t, h.Register, "/api/customers/register", registerBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "Email already registered." {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newCustomerHandler()

	rec := postJSON(t, h.Register, "/api/customers/register", `{"email":"x@y.com","password":"p"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	h, _ := newCustomerHandler()
	postJSON(t, h.Register, "/api/customers/register", registerBody)

	rec := postJSON(t, h.Login, "/api/customers/login", `{"email":"asha@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]CustomerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := resp["customer"]
	if c.Email != "asha@example.com" || c.Name != "Asha" {
		t.Errorf("customer = %+v", c)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newCustomerHandler()
	postJSON(t, h.Register, "/api/customers/register", registerBody)

	rec := postJSON(t, h.Login, "/api/customers/login", `{"email":"asha@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newCustomerHandler()

	rec := postJSON(t, h.Login, "/api/customers/login", `{"email":"ghost@example.com","password":"p"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
