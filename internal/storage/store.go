// Package storage is the persisted key/value layer standing in for
// browser-local storage. Values are opaque strings; callers own the encoding.
package storage

import (
	"context"
	"errors"

	"storefront/pkg/platform/sentinel"
)

// Well-known keys.
const (
	KeyCartItems       = "cartItems"
	KeyCredential      = "credential"
	KeyLegacyAuthToken = "authToken"
	KeyRefreshToken    = "refreshToken"
	KeyCheckoutMessage = "checkoutMessage"
	KeyCheckoutWarning = "checkoutWarning"
)

// ErrNotFound is returned by Get and Take when the key is absent.
var ErrNotFound = sentinel.ErrNotFound

// Store is implemented by the in-memory and Redis backends.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	// Take reads and removes a key in one step. One-shot messages use it.
	Take(ctx context.Context, key string) (string, error)
}

// GetOrEmpty swallows ErrNotFound and any backend error, returning "".
// Credential and cart read through it and treat failures as absence.
func GetOrEmpty(ctx context.Context, s Store, key string) string {
	v, err := s.Get(ctx, key)
	if err != nil {
		return ""
	}
	return v
}

// IsNotFound reports whether err is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
