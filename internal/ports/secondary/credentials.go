package secondary

import "time"

// CredentialStore defines the secondary port for the cashier's stored login.
type CredentialStore interface {
	// Load returns the stored credentials, or nil if the cashier is logged out.
	Load() (*Credentials, error)

	// Save replaces the stored credentials.
	Save(creds *Credentials) error

	// Clear removes the stored credentials.
	Clear() error
}

// Credentials is the persisted result of a login.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	Email        string
	CashierName  string
	Role         string
}
