package models

import "time"

// Order status values, mutated by the back-office only.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         int
	Reference  string
	CustomerID int
	Status     string
	Subtotal   float64
	Discount   float64
	Total      float64
	CouponCode string
	Name       string
	Email      string
	Phone      string
	Address    string
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID        int
	OrderID   int
	ProductID int
	Quantity  int
	UnitPrice float64
	Product   *Product
}
