// Package cli provides CLI commands for the paydesk application.
package cli

import (
	gocontext "context"

	"github.com/example/paydesk/internal/ctxutil"
	"github.com/example/paydesk/internal/wire"
)

// globalActorID stores the logged-in cashier for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor reads the stored login and remembers the cashier ID.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	globalActorID = wire.CurrentActor()
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if logged out or DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
