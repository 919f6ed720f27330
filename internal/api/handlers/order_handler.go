package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joushfoods/storefront-service/internal/cart"
	"github.com/joushfoods/storefront-service/internal/models"
	"github.com/joushfoods/storefront-service/internal/repository"
	"github.com/joushfoods/storefront-service/internal/service"
)

// --- Request / Response DTOs ---

type OrderItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// OrderRequest is shared by admin create and update. Items is a pointer
// so an update can tell "items absent, keep the rows" apart from
// "items: [], delete them all".
type OrderRequest struct {
	CustomerID int                 `json:"customerId"`
	Status     string              `json:"status"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	Items      *[]OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ID        int              `json:"id"`
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice float64          `json:"unitPrice"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type OrderResponse struct {
	ID         int                 `json:"id"`
	Reference  string              `json:"reference"`
	CustomerID int                 `json:"customerId"`
	Status     string              `json:"status"`
	Subtotal   float64             `json:"subtotal"`
	Discount   float64             `json:"discount"`
	Total      float64             `json:"total"`
	CouponCode string              `json:"couponCode,omitempty"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func toOrderResponse(o models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		ir := OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
		if it.Product != nil {
			pr := toProductResponse(*it.Product)
			ir.Product = &pr
		}
		items = append(items, ir)
	}
	return OrderResponse{
		ID:         o.ID,
		Reference:  o.Reference,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Subtotal:   round2(o.Subtotal),
		Discount:   round2(o.Discount),
		Total:      round2(o.Total),
		CouponCode: o.CouponCode,
		Name:       o.Name,
		Email:      o.Email,
		Phone:      o.Phone,
		Address:    o.Address,
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// --- Handler struct & constructor ---

// OrderStore is the order persistence surface the handler needs.
type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int) (*models.Order, error)
	CreateWithItems(ctx context.Context, o *models.Order) error
	UpdateWithItems(ctx context.Context, o *models.Order, items []models.OrderItem) error
	Delete(ctx context.Context, id int) error
}

type OrderHandler struct {
	orders   OrderStore
	products service.ProductReader
	checkout *service.CheckoutService
}

func NewOrderHandler(orders OrderStore, products service.ProductReader, checkout *service.CheckoutService) *OrderHandler {
	return &OrderHandler{orders: orders, products: products, checkout: checkout}
}

// --- Checkout (public) ---

type CheckoutHTTPRequest struct {
	CustomerID int                `json:"customerId"`
	CartID     int                `json:"cartId,omitempty"`
	Items      []OrderItemRequest `json:"items,omitempty"`
	Coupon     string             `json:"coupon,omitempty"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	Address    string             `json:"address"`
}

// Checkout handles POST /api/checkout: cart lines + contact data + an
// optional coupon become a pending order.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "name, email and address are required")
		return
	}

	svcReq := service.CheckoutRequest{
		CustomerID: req.CustomerID,
		CartID:     req.CartID,
		CouponCode: req.Coupon,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	}
	for _, it := range req.Items {
		svcReq.Items = append(svcReq.Items, service.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.checkout.Checkout(r.Context(), svcReq)
	if err != nil {
		var rejected *service.CouponRejectedError
		switch {
		case errors.As(err, &rejected):
			writeRejection(w, rejected.Result)
		case errors.Is(err, service.ErrCartEmpty):
			writeError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, service.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "Quantity must be a positive integer")
		case errors.Is(err, cart.ErrNotFound):
			writeError(w, http.StatusBadRequest, "Cart not found")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusBadRequest, "Unknown product in cart")
		default:
			internalError(w, "checkout", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

// --- Admin CRUD ---

// List handles GET /api/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		internalError(w, "list orders", err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		internalError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// Create handles POST /api/admin/orders. Items are priced from the
// catalog; totals follow the storefront formula with no discount.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Items == nil || len(*req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}
	status := req.Status
	if status == "" {
		status = models.OrderPending
	}
	if !models.ValidOrderStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	items, subtotal, err := h.priceItems(r, *req.Items)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Unknown product in items")
			return
		}
		if errors.Is(err, service.ErrInvalidQuantity) {
			writeError(w, http.StatusBadRequest, "Quantity must be a positive integer")
			return
		}
		internalError(w, "price order items", err)
		return
	}

	o := models.Order{
		Reference:  newOrderReference(),
		CustomerID: req.CustomerID,
		Status:     status,
		Subtotal:   subtotal,
		Total:      service.OrderTotal(subtotal, 0),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Items:      items,
	}
	if err := h.orders.CreateWithItems(r.Context(), &o); err != nil {
		internalError(w, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// Update handles PUT /api/admin/orders/{id}. When items are supplied the
// item set is replaced and subtotal/total recomputed; the discount on the
// order is preserved.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		internalError(w, "get order", err)
		return
	}

	if req.Status != "" {
		if !models.ValidOrderStatus(req.Status) {
			writeError(w, http.StatusBadRequest, "Invalid order status")
			return
		}
		o.Status = req.Status
	}
	if req.CustomerID != 0 {
		o.CustomerID = req.CustomerID
	}
	if req.Name != "" {
		o.Name = req.Name
	}
	if req.Email != "" {
		o.Email = req.Email
	}
	if req.Phone != "" {
		o.Phone = req.Phone
	}
	if req.Address != "" {
		o.Address = req.Address
	}

	// a supplied items array replaces the rows, an empty one included
	var items []models.OrderItem
	if req.Items != nil {
		var subtotal float64
		items, subtotal, err = h.priceItems(r, *req.Items)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Unknown product in items")
				return
			}
			if errors.Is(err, service.ErrInvalidQuantity) {
				writeError(w, http.StatusBadRequest, "Quantity must be a positive integer")
				return
			}
			internalError(w, "price order items", err)
			return
		}
		o.Subtotal = subtotal
		o.Total = service.OrderTotal(subtotal, o.Discount)
	}

	if err := h.orders.UpdateWithItems(r.Context(), o, items); err != nil {
		internalError(w, "update order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// Delete handles DELETE /api/admin/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		internalError(w, "delete order", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func newOrderReference() string {
	return uuid.NewString()
}

// priceItems always returns a non-nil slice; callers rely on that to tell
// "replace with nothing" apart from "no items supplied".
func (h *OrderHandler) priceItems(r *http.Request, reqs []OrderItemRequest) ([]models.OrderItem, float64, error) {
	items := []models.OrderItem{}
	var subtotal float64
	for _, it := range reqs {
		if it.Quantity <= 0 {
			return nil, 0, service.ErrInvalidQuantity
		}
		p, err := h.products.GetByID(r.Context(), it.ProductID)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
		subtotal += p.Price * float64(it.Quantity)
	}
	return items, subtotal, nil
}
