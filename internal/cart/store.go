package cart

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a cart id has no live cart behind it.
var ErrNotFound = errors.New("cart not found")

// Item is one cart line: a product reference with the unit price
// snapshotted at the time the item was added.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	ID         int    `json:"id"`
	CustomerID int    `json:"customerId"`
	Items      []Item `json:"items"`
}

// Subtotal is the sum of unit price times quantity across all lines.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// Store holds ephemeral carts. Carts are session state, not records:
// nothing behind this interface survives a restart. Handlers go through
// Store so a persistent implementation can be swapped in without
// touching call sites.
type Store interface {
	Create(customerID int) int
	Get(cartID int) (*Cart, error)
	AddItem(cartID int, item Item) error
	SetQuantity(cartID, productID, quantity int) error
	RemoveItem(cartID, productID int) error
	Clear(cartID int) error
}

// MemoryStore is the in-memory Store used in production today.
// Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	carts  map[int]*Cart
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:  make(map[int]*Cart),
		nextID: 1,
	}
}

func (s *MemoryStore) Create(customerID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.carts[id] = &Cart{ID: id, CustomerID: customerID, Items: []Item{}}
	return id
}

func (s *MemoryStore) Get(cartID int) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, ErrNotFound
	}
	// copy so callers can't mutate shared state outside the lock
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp, nil
}

// AddItem appends a line, merging quantity into an existing line for the
// same product. The existing line keeps its original price snapshot.
func (s *MemoryStore) AddItem(cartID int, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (s *MemoryStore) SetQuantity(cartID, productID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(cartID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) RemoveItem(cartID, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Clear(cartID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	c.Items = []Item{}
	return nil
}
