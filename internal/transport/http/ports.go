package httptransport

import (
	"context"

	"storefront/internal/backend"
	"storefront/internal/credential"
	"storefront/internal/profile"
	"storefront/internal/session"
)

// IdentityProvider verifies provider sign-ins and revokes provider sessions.
type IdentityProvider interface {
	SignIn(ctx context.Context, idToken string) (*session.Principal, error)
	SignOut(ctx context.Context, subjectID string) error
}

// SessionSyncer exchanges a provider ID token for backend credentials.
type SessionSyncer interface {
	SyncSession(ctx context.Context, idToken string) (*backend.Grant, error)
}

// OrderPlacer submits a cart snapshot to the backend.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, bearer string, req backend.OrderRequest) (*backend.Order, error)
}

// TokenEnsurer yields a fresh credential, renewing first when needed.
type TokenEnsurer interface {
	EnsureFresh(ctx context.Context) (*credential.Credential, error)
}

// ProfileService reads and writes the customer's personal data.
type ProfileService interface {
	Fetch(ctx context.Context, bearer, subjectID, email string) (*profile.CustomerProfile, error)
	Update(ctx context.Context, bearer string, p *profile.CustomerProfile) (*profile.CustomerProfile, error)
}
