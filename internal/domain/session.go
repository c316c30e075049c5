package domain

// Principal is the outcome of resolving a session token: either an
// authenticated user or nobody. The zero value is unauthenticated.
type Principal struct {
	user *User
}

// Authenticated returns a principal for the given user.
func Authenticated(u *User) Principal {
	return Principal{user: u}
}

// Unauthenticated returns the anonymous principal.
func Unauthenticated() Principal {
	return Principal{}
}

// User returns the authenticated user and true, or nil and false.
func (p Principal) User() (*User, bool) {
	return p.user, p.user != nil
}

// IsAuthenticated reports whether the principal carries a user.
func (p Principal) IsAuthenticated() bool {
	return p.user != nil
}
