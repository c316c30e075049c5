package domain

import (
	"context"
	"time"
)

// User represents a registered shopper. The email address is the identity.
type User struct {
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}
