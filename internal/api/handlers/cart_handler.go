package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joushfoods/storefront-service/internal/cart"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

// CartResponse adds the derived totals to the raw cart. Totals here are
// informational; checkout recomputes everything server-side.
type CartResponse struct {
	ID         int         `json:"id"`
	CustomerID int         `json:"customerId"`
	Items      []cart.Item `json:"items"`
	Subtotal   float64     `json:"subtotal"`
	Tax        float64     `json:"tax"`
	Shipping   float64     `json:"shipping"`
	Total      float64     `json:"total"`
}

func toCartResponse(c *cart.Cart) CartResponse {
	subtotal := c.Subtotal()
	return CartResponse{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		Items:      c.Items,
		Subtotal:   round2(subtotal),
		Tax:        round2(subtotal * service.TaxRate),
		Shipping:   0,
		Total:      round2(service.OrderTotal(subtotal, 0)),
	}
}

// CartHandler exposes the session cart. State lives behind cart.Store and
// is gone after a restart; clients treat it as a scratch pad.
type CartHandler struct {
	store    cart.Store
	products service.ProductReader
}

func NewCartHandler(store cart.Store, products service.ProductReader) *CartHandler {
	return &CartHandler{store: store, products: products}
}

// Create handles POST /api/cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int `json:"customerId"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	id := h.store.Create(req.CustomerID)
	writeJSON(w, http.StatusCreated, map[string]int{"cartId": id})
}

// Get handles GET /api/cart/{id}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem handles POST /api/cart/{id}/items. The product's current price
// is snapshotted onto the line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart id")
		return
	}

	var req struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be a positive integer")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		internalError(w, "get product", err)
		return
	}

	item := cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  req.Quantity,
	}
	if err := h.store.AddItem(id, item); err != nil {
		writeError(w, http.StatusNotFound, "Cart not found")
		return
	}

	c, ok := h.lookupID(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// SetQuantity handles PUT /api/cart/{id}/items/{productId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart id")
		return
	}
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SetQuantity(id, productID, req.Quantity); err != nil {
		writeError(w, http.StatusNotFound, "Cart or item not found")
		return
	}
	c, ok := h.lookupID(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem handles DELETE /api/cart/{id}/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart id")
		return
	}
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	if err := h.store.RemoveItem(id, productID); err != nil {
		writeError(w, http.StatusNotFound, "Cart or item not found")
		return
	}
	c, ok := h.lookupID(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear handles DELETE /api/cart/{id}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart id")
		return
	}
	if err := h.store.Clear(id); err != nil {
		writeError(w, http.StatusNotFound, "Cart not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) lookup(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart id")
		return nil, false
	}
	return h.lookupID(w, id)
}

func (h *CartHandler) lookupID(w http.ResponseWriter, id int) (*cart.Cart, bool) {
	c, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Cart not found")
		return nil, false
	}
	return c, true
}
