package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
)

// --- Request / Response DTOs ---

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Veg         bool    `json:"veg"`
	Slug        string  `json:"slug,omitempty"`
}

// ProductResponse is the client-facing shape; _id is a string alias of
// the numeric id kept for older storefront builds.
type ProductResponse struct {
	ID          int     `json:"id"`
	LegacyID    string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Veg         bool    `json:"veg"`
	Slug        string  `json:"slug"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		LegacyID:    strconv.Itoa(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		Category:    p.Category,
		Veg:         p.Veg,
		Slug:        p.Slug,
	}
}

// --- Handler struct & constructor ---

type ProductHandler struct {
	repo *repository.ProductRepo
}

func NewProductHandler(repo *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// --- Public catalog ---

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		internalError(w, "list products", err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/products/{slugOrId}: slug lookup first, numeric id
// as fallback.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "slugOrId")
	id, idErr := strconv.Atoi(key)

	p, err := h.repo.GetBySlugOrID(r.Context(), key, id, idErr == nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		internalError(w, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

// --- Admin CRUD ---

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "name and a positive price are required")
		return
	}
	if req.Slug == "" {
		req.Slug = models.Slugify(req.Name)
	}

	p := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
		Veg:         req.Veg,
		Slug:        req.Slug,
	}
	if err := h.repo.Create(r.Context(), &p); err != nil {
		internalError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "name and a positive price are required")
		return
	}
	if req.Slug == "" {
		req.Slug = models.Slugify(req.Name)
	}

	p := models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
		Veg:         req.Veg,
		Slug:        req.Slug,
	}
	if err := h.repo.Update(r.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		internalError(w, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		internalError(w, "delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
