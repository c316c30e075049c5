package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/repository/sqlite"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/storage"
)

const testJWTSecret = "test-secret-key-for-unit-tests-32-chars-min"

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, 60*time.Minute)
	return auth, db
}

func newTestCatalog(t *testing.T, db *sqlite.DB) *service.CatalogService {
	t.Helper()
	images, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return service.NewCatalogService(db.Products(), images)
}

func seedProducts(t *testing.T, catalog *service.CatalogService, n int) []*domain.Product {
	t.Helper()
	out := make([]*domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		p, err := catalog.Add(context.Background(), service.NewProductInput{
			ImageName: fmt.Sprintf("p%d.png", i),
			Image:     pngHeader,
			Name:      fmt.Sprintf("Product %d", i),
			Price:     fmt.Sprint(i * 10),
			Quantity:  "1 pc",
		})
		if err != nil {
			t.Fatalf("seed product %d: %v", i, err)
		}
		out = append(out, p)
	}
	return out
}

func registerPrincipal(t *testing.T, auth *service.AuthService, email string) domain.Principal {
	t.Helper()
	ctx := context.Background()
	if _, err := auth.Register(ctx, email, "shopper", "password123"); err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	token, err := auth.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Login %s: %v", email, err)
	}
	p, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !p.IsAuthenticated() {
		t.Fatal("expected authenticated principal")
	}
	return p
}
