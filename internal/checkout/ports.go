package checkout

import (
	"context"

	"storefront/internal/credential"
	"storefront/internal/profile"
	"storefront/internal/session"
)

// SessionReader exposes the current sign-in state.
type SessionReader interface {
	Session() session.Session
	Invalidate(ctx context.Context, reason string)
}

// TokenEnsurer returns a usable credential, renewing when needed.
type TokenEnsurer interface {
	EnsureFresh(ctx context.Context) (*credential.Credential, error)
}

// CartCounter reports the number of units in the cart.
type CartCounter interface {
	Count() int
}

// ProfileFetcher loads the customer profile by subject, falling back to
// email.
type ProfileFetcher interface {
	Fetch(ctx context.Context, bearer, subjectID, email string) (*profile.CustomerProfile, error)
}
