package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

func TestAuthService_Register_Success(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "new@example.com", "New User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}

	stored, err := db.Users().GetByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Fatalf("expected a bcrypt hash, got %q", stored.PasswordHash)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dup@example.com", "User 1", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := auth.Register(ctx, "dup@example.com", "User 2", "password456")
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "  Mixed@Example.COM ", "Mixed", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := auth.Login(ctx, "mixed@example.com", "password123"); err != nil {
		t.Fatalf("Login with lowercase email: %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"missing email", "", "user", "password123"},
		{"bad email", "not-an-email", "user", "password123"},
		{"missing username", "a@example.com", "  ", "password123"},
		{"missing password", "a@example.com", "user", ""},
	}

	auth, _ := newTestAuthService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.email, tt.username, tt.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "login@example.com", "Login User", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	p, err := auth.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	user, ok := p.User()
	if !ok || user.Email != "login@example.com" {
		t.Fatalf("expected principal for login@example.com, got %+v", user)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "wrong@example.com", "Wrong", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := auth.Login(ctx, "wrong@example.com", "wrongpassword")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Resolve_Unauthenticated(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	otherKey := service.NewAuthService(nil, "a-completely-different-secret-of-32+", 4, time.Hour)
	forged, err := otherKey.IssueToken("someone@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	noUser, err := auth.IssueToken("ghost@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "ghost@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong key", forged},
		{"unknown user", noUser},
		{"alg none", noneAlg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := auth.Resolve(ctx, tt.token)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.IsAuthenticated() {
				t.Fatal("expected unauthenticated principal")
			}
		})
	}
}

func TestAuthService_Resolve_Expired(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "exp@example.com", "Exp", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	auth.SetClock(func() time.Time { return now })
	token, err := auth.IssueToken("exp@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if p, _ := auth.Resolve(ctx, token); !p.IsAuthenticated() {
		t.Fatal("token should still be valid after 59 minutes")
	}

	now = now.Add(2 * time.Minute)
	if p, _ := auth.Resolve(ctx, token); p.IsAuthenticated() {
		t.Fatal("token should be expired after 61 minutes")
	}
}

func TestAuthService_IssueToken_Claims(t *testing.T) {
	auth, _ := newTestAuthService(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	auth.SetClock(func() time.Time { return now })

	token, err := auth.IssueToken("claims@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if claims.Subject != "claims@example.com" {
		t.Errorf("sub = %q", claims.Subject)
	}
	if !claims.IssuedAt.Equal(now) {
		t.Errorf("iat = %v, want %v", claims.IssuedAt, now)
	}
	if !claims.ExpiresAt.Equal(now.Add(60 * time.Minute)) {
		t.Errorf("exp = %v, want iat+60m", claims.ExpiresAt)
	}
}
