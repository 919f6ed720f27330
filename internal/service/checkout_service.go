package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/joushfoods/storefront-service/internal/cart"
	"github.com/joushfoods/storefront-service/internal/models"
)

// TaxRate is the flat tax applied to every order. Shipping is free,
// unconditionally.
const TaxRate = 0.18

// OrderTotal applies tax and discount to a subtotal.
func OrderTotal(subtotal, discount float64) float64 {
	return subtotal + subtotal*TaxRate - discount
}

type ProductReader interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

type OrderWriter interface {
	CreateWithItems(ctx context.Context, o *models.Order) error
}

type CheckoutItem struct {
	ProductID int
	Quantity  int
}

type CheckoutRequest struct {
	CustomerID int
	CartID     int
	Items      []CheckoutItem
	CouponCode string
	Name       string
	Email      string
	Phone      string
	Address    string
}

// CheckoutService composes cart lines, contact data and a coupon outcome
// into a pending order, written atomically with its items.
type CheckoutService struct {
	products ProductReader
	orders   OrderWriter
	coupons  *CouponService
	carts    cart.Store
}

func NewCheckoutService(products ProductReader, orders OrderWriter, coupons *CouponService, carts cart.Store) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		coupons:  coupons,
		carts:    carts,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	items, subtotal, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		discount   float64
		couponCode string
	)
	if req.CouponCode != "" {
		res, err := s.coupons.Validate(ctx, req.CouponCode, &subtotal)
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, &CouponRejectedError{Result: res}
		}
		discount = res.Discount
		couponCode = res.Coupon.Code
	}

	order := &models.Order{
		Reference:  uuid.NewString(),
		CustomerID: req.CustomerID,
		Status:     models.OrderPending,
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      OrderTotal(subtotal, discount),
		CouponCode: couponCode,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Items:      items,
	}
	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}

	// best-effort: the session cart is disposable state
	if req.CartID > 0 {
		_ = s.carts.Clear(req.CartID)
	}
	return order, nil
}

// resolveItems turns the request into order items with unit-price
// snapshots. Explicit items are priced from the catalog at checkout time;
// a cart id falls back to the snapshots taken when the lines were added.
func (s *CheckoutService) resolveItems(ctx context.Context, req CheckoutRequest) ([]models.OrderItem, float64, error) {
	var (
		items    []models.OrderItem
		subtotal float64
	)

	switch {
	case len(req.Items) > 0:
		for _, it := range req.Items {
			if it.Quantity <= 0 {
				return nil, 0, ErrInvalidQuantity
			}
			p, err := s.products.GetByID(ctx, it.ProductID)
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
	case req.CartID > 0:
		c, err := s.carts.Get(req.CartID)
		if err != nil {
			return nil, 0, err
		}
		for _, it := range c.Items {
			items = append(items, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		subtotal = c.Subtotal()
	}

	if len(items) == 0 {
		return nil, 0, ErrCartEmpty
	}
	return items, subtotal, nil
}
