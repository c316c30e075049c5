package domain

import (
	"context"
	"sort"
)

// CartLine is one product in a cart. Name, Price and Image are a snapshot
// taken when the product was first added.
type CartLine struct {
	ProductID int64
	Name      string
	Price     int64
	Image     string
	Quantity  int
}

// Subtotal returns Price * Quantity.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is the per-user cart, keyed by the owner's email.
type Cart struct {
	UserEmail string
	Items     map[int64]CartLine
}

// NewCart returns an empty cart for the given user.
func NewCart(email string) *Cart {
	return &Cart{UserEmail: email, Items: make(map[int64]CartLine)}
}

// Lines returns the cart lines sorted by product ID.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.Items))
	for _, l := range c.Items {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// TotalPrice returns the sum of price * quantity over all lines.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.Items {
		total += l.Subtotal()
	}
	return total
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// CartRepository persists carts. Every mutation is a single atomic store
// operation; implementations must never leave a line with quantity <= 0.
type CartRepository interface {
	// Get returns the user's cart, or an empty cart if none exists.
	Get(ctx context.Context, email string) (*Cart, error)
	// AddLine inserts line with quantity 1, or increments the quantity if
	// the product is already in the cart. The cart is created if needed.
	AddLine(ctx context.Context, email string, line CartLine) (int, error)
	// Adjust adds delta to the line quantity and returns the new quantity.
	// A result <= 0 removes the line. Returns ErrProductNotInCart if the
	// product is not in the cart.
	Adjust(ctx context.Context, email string, productID int64, delta int) (int, error)
	// RemoveLine deletes the line. Returns ErrProductNotInCart if absent.
	RemoveLine(ctx context.Context, email string, productID int64) error
	// Clear removes every line. It succeeds for a nonexistent cart.
	Clear(ctx context.Context, email string) error
}
