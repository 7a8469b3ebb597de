// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/paydesk/internal/ports/secondary"
)

// CredentialFile implements secondary.CredentialStore as a YAML file
// readable only by its owner.
type CredentialFile struct {
	path string
}

// credentialsYAML is the on-disk layout of the credentials file.
type credentialsYAML struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `yaml:"expires_at,omitempty"`
	UserID       string    `yaml:"user_id"`
	Email        string    `yaml:"email"`
	CashierName  string    `yaml:"cashier_name"`
	Role         string    `yaml:"role,omitempty"`
}

// NewCredentialFile creates a credential store at path.
// If path is empty, defaults to ~/.paydesk/credentials.yaml.
func NewCredentialFile(path string) (*CredentialFile, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".paydesk", "credentials.yaml")
	}

	return &CredentialFile{path: path}, nil
}

// Path returns the location of the credentials file.
func (c *CredentialFile) Path() string {
	return c.path
}

// Load reads the stored credentials. Returns nil, nil when logged out.
func (c *CredentialFile) Load() (*secondary.Credentials, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var raw credentialsYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if raw.AccessToken == "" {
		return nil, nil
	}

	return &secondary.Credentials{
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		ExpiresAt:    raw.ExpiresAt,
		UserID:       raw.UserID,
		Email:        raw.Email,
		CashierName:  raw.CashierName,
		Role:         raw.Role,
	}, nil
}

// Save replaces the stored credentials.
func (c *CredentialFile) Save(creds *secondary.Credentials) error {
	if creds == nil {
		return c.Clear()
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}

	data, err := yaml.Marshal(credentialsYAML{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		ExpiresAt:    creds.ExpiresAt,
		UserID:       creds.UserID,
		Email:        creds.Email,
		CashierName:  creds.CashierName,
		Role:         creds.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Write to a sibling file and rename so a crash never leaves half a token
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace credentials: %w", err)
	}

	return nil
}

// Clear removes the stored credentials. Clearing when logged out is not an error.
func (c *CredentialFile) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Ensure CredentialFile implements the interface
var _ secondary.CredentialStore = (*CredentialFile)(nil)
