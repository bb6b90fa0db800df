package session

import "context"

// IdentityProvider is the slice of the identity provider the store needs.
type IdentityProvider interface {
	// RoleClaims returns the custom claims attached to the account.
	RoleClaims(ctx context.Context, subjectID string) (map[string]any, error)
	// SignOut revokes the account's provider session.
	SignOut(ctx context.Context, subjectID string) error
}

// ProfileDocuments stores extended profile documents keyed by subject.
// Get returns sentinel.ErrNotFound when no document exists yet.
type ProfileDocuments interface {
	Get(ctx context.Context, subjectID string) (*UserProfile, error)
	Save(ctx context.Context, profile *UserProfile) error
}
