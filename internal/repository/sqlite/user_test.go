package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/storefront/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	user := &domain.User{
		Email:        "test@example.com",
		Username:     "tester",
		PasswordHash: "hashedpw",
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Email: "dup@example.com", Username: "one", PasswordHash: "h1"}); err != nil {
		t.Fatalf("Create user1: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Email: "dup@example.com", Username: "two", PasswordHash: "h2"})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo := newTestDB(t).Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Email: "byemail@example.com", Username: "by-email", PasswordHash: "hash"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByEmail(ctx, "byemail@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if found.Username != "by-email" {
		t.Fatalf("expected username %q, got %q", "by-email", found.Username)
	}
	if found.PasswordHash != "hash" {
		t.Fatalf("expected stored hash, got %q", found.PasswordHash)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo := newTestDB(t).Users()

	_, err := repo.GetByEmail(context.Background(), "nonexistent@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
