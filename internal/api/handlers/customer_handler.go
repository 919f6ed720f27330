package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerResponse is the customer record minus the password hash.
type CustomerResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

type CustomerHandler struct {
	auth *service.AuthService
}

func NewCustomerHandler(auth *service.AuthService) *CustomerHandler {
	return &CustomerHandler{auth: auth}
}

// Register handles POST /api/customers/register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Address == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	c := models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.auth.RegisterCustomer(r.Context(), &c, req.Password); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email already registered.")
			return
		}
		internalError(w, "register customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful."})
}

// Login handles POST /api/customers/login
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	c, err := h.auth.LoginCustomer(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		internalError(w, "login customer", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]CustomerResponse{
		"customer": {
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		},
	})
}
