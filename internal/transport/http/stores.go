package httptransport

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/session"
)

// CredentialWriter persists the credentials issued at sign-in.
type CredentialWriter interface {
	Save(ctx context.Context, raw string) error
	SaveRefreshToken(ctx context.Context, raw string) error
	Clear(ctx context.Context)
}

// Sessions is the session store as seen by handlers.
type Sessions interface {
	Session() session.Session
	AwaitSubject(ctx context.Context, subjectID string) (session.Session, error)
	Refresh(ctx context.Context) (*session.UserProfile, error)
	Invalidate(ctx context.Context, reason string)
}

// Cart is the cart store as seen by handlers.
type Cart interface {
	Add(ctx context.Context, item cart.Item)
	Remove(ctx context.Context, productID string, variant *cart.VariantKey)
	Clear(ctx context.Context)
	Snapshot() cart.State
}
