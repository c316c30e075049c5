package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUser     = errors.New("user already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotInCart  = errors.New("product not in cart")
	ErrInvalidInput      = errors.New("invalid input")
)
