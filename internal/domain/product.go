package domain

import (
	"context"
	"time"
)

// Product is a catalog entry. Quantity is a free-form label shown to
// shoppers ("500 g", "1 dozen"), not a stock count.
type Product struct {
	ID        int64
	Image     string
	Name      string
	Price     int64 // smallest currency unit
	Quantity  string
	CreatedAt time.Time
}

// ProductRepository handles catalog persistence.
type ProductRepository interface {
	// Create inserts the product and assigns its ID atomically as the
	// current maximum ID plus one (1 for an empty catalog).
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	Count(ctx context.Context) (int, error)
	// ListNewest returns products ordered by ID descending.
	ListNewest(ctx context.Context, limit, offset int) ([]Product, error)
}
