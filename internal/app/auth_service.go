package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	backend secondary.BillingBackend
	creds   secondary.CredentialStore
	now     func() time.Time
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(backend secondary.BillingBackend, creds secondary.CredentialStore) *AuthServiceImpl {
	return &AuthServiceImpl{
		backend: backend,
		creds:   creds,
		now:     time.Now,
	}
}

// Login authenticates against the backend and stores the token.
func (s *AuthServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.Cashier, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	result, err := s.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %s: %w", operatorMessage(err, "invalid email or password"), err)
	}

	creds := &secondary.Credentials{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		UserID:       result.User.ID,
		Email:        result.User.Email,
		CashierName:  result.User.FullName,
		Role:         result.User.Role,
	}
	if result.ExpiresIn > 0 {
		creds.ExpiresAt = s.now().Add(result.ExpiresIn).UTC()
	}

	if err := s.creds.Save(creds); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}

	return credentialsToCashier(creds), nil
}

// Logout forgets the stored token.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if err := s.creds.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// WhoAmI returns the logged-in cashier. The stored token is checked against
// the backend profile so a revoked token is noticed here.
func (s *AuthServiceImpl) WhoAmI(ctx context.Context) (*primary.Cashier, error) {
	creds, err := s.creds.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds == nil {
		return nil, fmt.Errorf("not logged in - run paydesk login")
	}
	if !creds.ExpiresAt.IsZero() && !s.now().Before(creds.ExpiresAt) {
		_ = s.creds.Clear()
		return nil, fmt.Errorf("session expired - run paydesk login")
	}

	profile, err := s.backend.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify login: %s: %w", operatorMessage(err, "backend unavailable"), err)
	}

	cashier := credentialsToCashier(creds)
	cashier.UserID = profile.ID
	if profile.FullName != "" {
		cashier.Name = profile.FullName
	}
	if profile.Email != "" {
		cashier.Email = profile.Email
	}
	if profile.Role != "" {
		cashier.Role = profile.Role
	}
	return cashier, nil
}

// CurrentActor returns the stored cashier's user ID for journal attribution,
// or empty string when logged out.
func (s *AuthServiceImpl) CurrentActor() string {
	creds, err := s.creds.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.UserID
}

func credentialsToCashier(c *secondary.Credentials) *primary.Cashier {
	return &primary.Cashier{
		UserID:    c.UserID,
		Email:     c.Email,
		Name:      c.CashierName,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt,
	}
}

// Ensure AuthServiceImpl implements the interface
var _ primary.AuthService = (*AuthServiceImpl)(nil)
