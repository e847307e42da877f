package storage

import (
	"context"
	"strings"

	perrors "github.com/jrsteele09/go-credits-portal/internal/errors"
)

// Scope identifies which persistence area holds a value.
type Scope string

const (
	ScopeNone      Scope = "none"
	ScopeEphemeral Scope = "ephemeral" // cleared when the process (browser session) ends
	ScopeDurable   Scope = "durable"   // survives restarts
)

// Store is a string key-value area. Implementations are safe for concurrent
// use and Set always replaces the whole value.
type Store interface {
	// Get returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for absent keys
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return perrors.ErrInvalidKey
	}
	return nil
}
