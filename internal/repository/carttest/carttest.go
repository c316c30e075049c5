// Package carttest holds behavioural tests shared by every
// domain.CartRepository implementation.
package carttest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/msomdec/storefront/internal/domain"
)

// Factory returns a fresh, empty repository in which carts for the given
// user emails may be created.
type Factory func(t *testing.T, emails ...string) domain.CartRepository

const (
	shopper = "shopper@example.com"
	other   = "other@example.com"
)

var (
	tea    = domain.CartLine{ProductID: 1, Name: "Tea", Price: 120, Image: "tea.png"}
	coffee = domain.CartLine{ProductID: 2, Name: "Coffee", Price: 250, Image: "coffee.png"}
)

// Run executes the shared cart repository tests against newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("GetMissingCartIsEmpty", func(t *testing.T) {
		repo := newRepo(t, shopper)
		cart, err := repo.Get(context.Background(), shopper)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(cart.Items) != 0 {
			t.Fatalf("expected empty cart, got %d items", len(cart.Items))
		}
	})

	t.Run("AddLineTwiceIncrements", func(t *testing.T) {
		repo := newRepo(t, shopper)
		mustAdd(t, repo, shopper, tea, 1)
		mustAdd(t, repo, shopper, tea, 2)

		cart := mustGet(t, repo, shopper)
		if len(cart.Items) != 1 {
			t.Fatalf("expected one line, got %d", len(cart.Items))
		}
		got := cart.Items[tea.ProductID]
		if got.Quantity != 2 || got.Name != "Tea" || got.Price != 120 || got.Image != "tea.png" {
			t.Fatalf("unexpected line: %+v", got)
		}
	})

	t.Run("AdjustUpAndDown", func(t *testing.T) {
		repo := newRepo(t, shopper)
		ctx := context.Background()
		mustAdd(t, repo, shopper, tea, 1)

		q, err := repo.Adjust(ctx, shopper, tea.ProductID, 1)
		if err != nil || q != 2 {
			t.Fatalf("Adjust +1: q=%d err=%v", q, err)
		}
		q, err = repo.Adjust(ctx, shopper, tea.ProductID, -1)
		if err != nil || q != 1 {
			t.Fatalf("Adjust -1: q=%d err=%v", q, err)
		}
	})

	t.Run("AdjustToZeroRemovesLine", func(t *testing.T) {
		repo := newRepo(t, shopper)
		ctx := context.Background()
		mustAdd(t, repo, shopper, tea, 1)
		mustAdd(t, repo, shopper, coffee, 1)

		q, err := repo.Adjust(ctx, shopper, tea.ProductID, -1)
		if err != nil {
			t.Fatalf("Adjust: %v", err)
		}
		if q != 0 {
			t.Fatalf("expected quantity 0, got %d", q)
		}

		cart := mustGet(t, repo, shopper)
		if _, ok := cart.Items[tea.ProductID]; ok {
			t.Fatal("expected tea line to be removed")
		}
		if _, ok := cart.Items[coffee.ProductID]; !ok {
			t.Fatal("expected coffee line to remain")
		}
	})

	t.Run("AdjustMissingLine", func(t *testing.T) {
		repo := newRepo(t, shopper)
		_, err := repo.Adjust(context.Background(), shopper, 42, 1)
		if !errors.Is(err, domain.ErrProductNotInCart) {
			t.Fatalf("expected ErrProductNotInCart, got %v", err)
		}
	})

	t.Run("RemoveLine", func(t *testing.T) {
		repo := newRepo(t, shopper)
		ctx := context.Background()
		mustAdd(t, repo, shopper, tea, 1)
		mustAdd(t, repo, shopper, tea, 2)
		mustAdd(t, repo, shopper, tea, 3)

		if err := repo.RemoveLine(ctx, shopper, tea.ProductID); err != nil {
			t.Fatalf("RemoveLine: %v", err)
		}
		if cart := mustGet(t, repo, shopper); len(cart.Items) != 0 {
			t.Fatalf("expected empty cart, got %d items", len(cart.Items))
		}
		if err := repo.RemoveLine(ctx, shopper, tea.ProductID); !errors.Is(err, domain.ErrProductNotInCart) {
			t.Fatalf("expected ErrProductNotInCart on second remove, got %v", err)
		}
	})

	t.Run("ClearNonexistentCart", func(t *testing.T) {
		repo := newRepo(t, shopper)
		if err := repo.Clear(context.Background(), shopper); err != nil {
			t.Fatalf("Clear: %v", err)
		}
	})

	t.Run("ClearEmptiesCart", func(t *testing.T) {
		repo := newRepo(t, shopper)
		mustAdd(t, repo, shopper, tea, 1)
		mustAdd(t, repo, shopper, coffee, 1)

		if err := repo.Clear(context.Background(), shopper); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if cart := mustGet(t, repo, shopper); len(cart.Items) != 0 {
			t.Fatalf("expected empty cart, got %d items", len(cart.Items))
		}
	})

	t.Run("CartsAreIsolatedPerUser", func(t *testing.T) {
		repo := newRepo(t, shopper, other)
		mustAdd(t, repo, shopper, tea, 1)
		mustAdd(t, repo, other, coffee, 1)

		if err := repo.Clear(context.Background(), other); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if cart := mustGet(t, repo, shopper); len(cart.Items) != 1 {
			t.Fatalf("expected shopper cart untouched, got %d items", len(cart.Items))
		}
	})

	t.Run("ConcurrentAddsAreNotLost", func(t *testing.T) {
		repo := newRepo(t, shopper)
		ctx := context.Background()

		const n = 25
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.AddLine(ctx, shopper, tea); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("AddLine: %v", err)
		}

		if q := mustGet(t, repo, shopper).Items[tea.ProductID].Quantity; q != n {
			t.Fatalf("expected quantity %d after concurrent adds, got %d", n, q)
		}
	})
}

func mustAdd(t *testing.T, repo domain.CartRepository, email string, line domain.CartLine, want int) {
	t.Helper()
	q, err := repo.AddLine(context.Background(), email, line)
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if q != want {
		t.Fatalf("AddLine: expected quantity %d, got %d", want, q)
	}
}

func mustGet(t *testing.T, repo domain.CartRepository, email string) *domain.Cart {
	t.Helper()
	cart, err := repo.Get(context.Background(), email)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return cart
}
