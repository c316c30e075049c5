package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/msomdec/storefront/internal/domain"
)

// CartView is the read-only projection rendered on the cart page.
type CartView struct {
	Lines      []domain.CartLine
	TotalPrice int64
	ItemCount  int
	// Summary is the plain order summary; EncodedSummary is the same text
	// URL-encoded for a query string.
	Summary        string
	EncodedSummary string
	DeepLink       string
	Currency       string
}

// CartService applies cart mutations for an authenticated principal.
type CartService struct {
	carts           domain.CartRepository
	products        domain.ProductRepository
	messagingNumber string
	currency        string
}

// NewCartService creates a new CartService. messagingNumber is the phone
// number orders are sent to; currency prefixes every amount in the summary.
func NewCartService(carts domain.CartRepository, products domain.ProductRepository, messagingNumber, currency string) *CartService {
	return &CartService{
		carts:           carts,
		products:        products,
		messagingNumber: messagingNumber,
		currency:        currency,
	}
}

func requireUser(p domain.Principal) (*domain.User, error) {
	user, ok := p.User()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Add puts one more of the product into the cart and returns the new line
// quantity. Products already in the cart are incremented without a catalog
// lookup.
func (s *CartService) Add(ctx context.Context, p domain.Principal, productID int64) (int, error) {
	user, err := requireUser(p)
	if err != nil {
		return 0, err
	}

	qty, err := s.carts.Adjust(ctx, user.Email, productID, 1)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, domain.ErrProductNotInCart) {
		return 0, fmt.Errorf("increment line: %w", err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrProductNotFound
		}
		return 0, fmt.Errorf("get product: %w", err)
	}

	// AddLine increments instead of inserting if a concurrent request got
	// here first.
	qty, err = s.carts.AddLine(ctx, user.Email, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
	})
	if err != nil {
		return 0, fmt.Errorf("add line: %w", err)
	}
	return qty, nil
}

// Increase adds one to an existing line.
func (s *CartService) Increase(ctx context.Context, p domain.Principal, productID int64) (int, error) {
	return s.adjust(ctx, p, productID, 1)
}

// Decrease removes one from an existing line, dropping the line at zero.
func (s *CartService) Decrease(ctx context.Context, p domain.Principal, productID int64) (int, error) {
	return s.adjust(ctx, p, productID, -1)
}

func (s *CartService) adjust(ctx context.Context, p domain.Principal, productID int64, delta int) (int, error) {
	user, err := requireUser(p)
	if err != nil {
		return 0, err
	}
	qty, err := s.carts.Adjust(ctx, user.Email, productID, delta)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotInCart) {
			return 0, err
		}
		return 0, fmt.Errorf("adjust line: %w", err)
	}
	return qty, nil
}

// Remove deletes a line regardless of its quantity.
func (s *CartService) Remove(ctx context.Context, p domain.Principal, productID int64) error {
	user, err := requireUser(p)
	if err != nil {
		return err
	}
	if err := s.carts.RemoveLine(ctx, user.Email, productID); err != nil {
		if errors.Is(err, domain.ErrProductNotInCart) {
			return err
		}
		return fmt.Errorf("remove line: %w", err)
	}
	return nil
}

// Clear empties the cart. Clearing a cart that was never created succeeds.
func (s *CartService) Clear(ctx context.Context, p domain.Principal) error {
	user, err := requireUser(p)
	if err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, user.Email); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// View loads the cart and builds the page projection.
func (s *CartService) View(ctx context.Context, p domain.Principal) (*CartView, error) {
	user, err := requireUser(p)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.Get(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	lines := cart.Lines()
	summary := OrderSummary(lines, s.currency)
	encoded := EncodeSummary(summary)
	return &CartView{
		Lines:          lines,
		TotalPrice:     cart.TotalPrice(),
		ItemCount:      cart.ItemCount(),
		Summary:        summary,
		EncodedSummary: encoded,
		DeepLink:       DeepLink(s.messagingNumber, encoded),
		Currency:       s.currency,
	}, nil
}

// ItemCount returns the total quantity across the cart, 0 for anonymous
// principals.
func (s *CartService) ItemCount(ctx context.Context, p domain.Principal) (int, error) {
	user, ok := p.User()
	if !ok {
		return 0, nil
	}
	cart, err := s.carts.Get(ctx, user.Email)
	if err != nil {
		return 0, fmt.Errorf("get cart: %w", err)
	}
	return cart.ItemCount(), nil
}

// OrderSummary renders the itemized order text sent to the shop.
func OrderSummary(lines []domain.CartLine, currency string) string {
	var b strings.Builder
	var total int64
	b.WriteString("🛒 *Order Summary*:\n")
	for _, l := range lines {
		sub := l.Subtotal()
		total += sub
		fmt.Fprintf(&b, "🔹 *%s*  \n %d x %s%d = %s%d \n", l.Name, l.Quantity, currency, l.Price, currency, sub)
	}
	fmt.Fprintf(&b, "💰 *Total Amount:* %s%d", currency, total)
	return b.String()
}

// EncodeSummary percent-encodes text for use as a query value. Spaces become
// %20 rather than '+', which some messaging clients show literally, and '/'
// is left as is.
func EncodeSummary(text string) string {
	return summaryEscaper.Replace(url.QueryEscape(text))
}

var summaryEscaper = strings.NewReplacer("+", "%20", "%2F", "/")

// DeepLink builds the wa.me link that opens a chat with the encoded text.
func DeepLink(number, encodedText string) string {
	digits := strings.TrimPrefix(strings.TrimSpace(number), "+")
	return "https://wa.me/" + digits + "?text=" + encodedText
}
