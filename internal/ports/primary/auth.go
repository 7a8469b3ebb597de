package primary

import (
	"context"
	"time"
)

// AuthService defines the primary port for cashier login state.
type AuthService interface {
	// Login authenticates against the backend and stores the token.
	Login(ctx context.Context, req LoginRequest) (*Cashier, error)

	// Logout forgets the stored token.
	Logout(ctx context.Context) error

	// WhoAmI returns the logged-in cashier, or an error when logged out or expired.
	WhoAmI(ctx context.Context) (*Cashier, error)
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// Cashier represents the logged-in operator.
type Cashier struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}
