package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joushfoods/storefront-service/internal/cache"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

// --- Request / Response DTOs ---

type ValidateCouponRequest struct {
	Code      string   `json:"code"`
	CartTotal *float64 `json:"cartTotal,omitempty"`
}

type CouponPublic struct {
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	MinOrderValue float64   `json:"minOrderValue"`
	MaxDiscount   float64   `json:"maxDiscount"`
	ValidUntil    time.Time `json:"validUntil"`
}

type ValidateCouponResponse struct {
	Valid          bool         `json:"valid"`
	Coupon         CouponPublic `json:"coupon"`
	DiscountAmount *float64     `json:"discountAmount,omitempty"`
}

type CouponRequest struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	MinOrderValue float64 `json:"minOrderValue"`
	MaxDiscount   float64 `json:"maxDiscount"`
	ValidFrom     string  `json:"validFrom"` // RFC3339
	ValidUntil    string  `json:"validUntil"`
	IsActive      bool    `json:"isActive"`
}

// CouponPatchRequest updates only the fields present in the body.
type CouponPatchRequest struct {
	Code          *string  `json:"code"`
	Description   *string  `json:"description"`
	DiscountType  *string  `json:"discountType"`
	DiscountValue *float64 `json:"discountValue"`
	MinOrderValue *float64 `json:"minOrderValue"`
	MaxDiscount   *float64 `json:"maxDiscount"`
	ValidFrom     *string  `json:"validFrom"`
	ValidUntil    *string  `json:"validUntil"`
	IsActive      *bool    `json:"isActive"`
}

type CouponResponse struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	MinOrderValue float64   `json:"minOrderValue"`
	MaxDiscount   float64   `json:"maxDiscount"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidUntil    time.Time `json:"validUntil"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toCouponResponse(c models.Coupon) CouponResponse {
	return CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		MaxDiscount:   c.MaxDiscount,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// --- Handler struct & constructor ---

type CouponHandler struct {
	repo    *repository.CouponRepo
	service *service.CouponService
	cache   *cache.CouponCache
}

func NewCouponHandler(repo *repository.CouponRepo, svc *service.CouponService, c *cache.CouponCache) *CouponHandler {
	return &CouponHandler{repo: repo, service: svc, cache: c}
}

// writeRejection maps a failed validation to the public error contract.
func writeRejection(w http.ResponseWriter, res service.ValidationResult) {
	switch res.Reason {
	case service.ReasonNotFound:
		writeError(w, http.StatusNotFound, "Invalid coupon code")
	case service.ReasonInactive:
		writeError(w, http.StatusBadRequest, "This coupon is no longer active")
	case service.ReasonNotInWindow:
		writeError(w, http.StatusBadRequest, "This coupon has expired or is not yet valid")
	case service.ReasonMinOrder:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":         fmt.Sprintf("This coupon requires a minimum order of ₹%g", res.MinOrderValue),
			"minOrderValue": res.MinOrderValue,
		})
	default:
		writeError(w, http.StatusBadRequest, "Coupon not applicable")
	}
}

// Validate handles POST /api/coupons/validate
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "Coupon code is required")
		return
	}

	res, err := h.service.Validate(r.Context(), req.Code, req.CartTotal)
	if err != nil {
		internalError(w, "validate coupon", err)
		return
	}
	if !res.Valid {
		writeRejection(w, res)
		return
	}

	resp := ValidateCouponResponse{
		Valid: true,
		Coupon: CouponPublic{
			Code:          res.Coupon.Code,
			Description:   res.Coupon.Description,
			DiscountType:  res.Coupon.DiscountType,
			DiscountValue: res.Coupon.DiscountValue,
			MinOrderValue: res.Coupon.MinOrderValue,
			MaxDiscount:   res.Coupon.MaxDiscount,
			ValidUntil:    res.Coupon.ValidUntil,
		},
	}
	if res.Discount > 0 {
		d := round2(res.Discount)
		resp.DiscountAmount = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Admin CRUD ---

// List handles GET /api/admin/coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, "list coupons", err)
		return
	}
	out := make([]CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, toCouponResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/admin/coupons/{id}
func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon id")
		return
	}
	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		internalError(w, "get coupon", err)
		return
	}
	writeJSON(w, http.StatusOK, toCouponResponse(*c))
}

// Create handles POST /api/admin/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, errMsg := couponFromRequest(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, repository.ErrCodeTaken) {
			writeError(w, http.StatusBadRequest, "Coupon code already exists")
			return
		}
		internalError(w, "create coupon", err)
		return
	}
	h.cache.Invalidate(c.Code)
	writeJSON(w, http.StatusCreated, toCouponResponse(*c))
}

// Update handles PUT /api/admin/coupons/{id}
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon id")
		return
	}

	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		internalError(w, "get coupon", err)
		return
	}

	c, errMsg := couponFromRequest(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	c.ID = id

	if err := h.repo.Update(r.Context(), c); err != nil {
		if errors.Is(err, repository.ErrCodeTaken) {
			writeError(w, http.StatusBadRequest, "Coupon code already exists")
			return
		}
		internalError(w, "update coupon", err)
		return
	}
	// the code may have changed; drop both cache keys
	h.cache.Invalidate(existing.Code)
	h.cache.Invalidate(c.Code)
	writeJSON(w, http.StatusOK, toCouponResponse(*c))
}

// Patch handles PATCH /api/admin/coupons/{id}: only supplied fields change.
func (h *CouponHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon id")
		return
	}

	var req CouponPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		internalError(w, "get coupon", err)
		return
	}
	oldCode := c.Code

	if req.Code != nil {
		c.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.DiscountType != nil {
		if *req.DiscountType != models.DiscountPercentage && *req.DiscountType != models.DiscountFixed {
			writeError(w, http.StatusBadRequest, "discountType must be percentage or fixed")
			return
		}
		c.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		c.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		c.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxDiscount != nil {
		c.MaxDiscount = *req.MaxDiscount
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid validFrom; use RFC3339")
			return
		}
		c.ValidFrom = t
	}
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid validUntil; use RFC3339")
			return
		}
		c.ValidUntil = t
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), c); err != nil {
		if errors.Is(err, repository.ErrCodeTaken) {
			writeError(w, http.StatusBadRequest, "Coupon code already exists")
			return
		}
		internalError(w, "patch coupon", err)
		return
	}
	h.cache.Invalidate(oldCode)
	h.cache.Invalidate(c.Code)
	writeJSON(w, http.StatusOK, toCouponResponse(*c))
}

// Delete handles DELETE /api/admin/coupons/{id}
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coupon id")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Coupon not found")
			return
		}
		internalError(w, "get coupon", err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		internalError(w, "delete coupon", err)
		return
	}
	h.cache.Invalidate(c.Code)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Coupon deleted successfully",
	})
}

func couponFromRequest(req CouponRequest) (*models.Coupon, string) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" || req.DiscountValue <= 0 {
		return nil, "code and a positive discountValue are required"
	}
	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFixed {
		return nil, "discountType must be percentage or fixed"
	}
	from, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, "invalid validFrom; use RFC3339"
	}
	until, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, "invalid validUntil; use RFC3339"
	}

	return &models.Coupon{
		Code:          code,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		ValidFrom:     from,
		ValidUntil:    until,
		IsActive:      req.IsActive,
	}, ""
}
