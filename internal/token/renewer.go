package token

import (
	"context"

	"storefront/internal/backend"
	"storefront/internal/credential"
	dErrors "storefront/pkg/domain-errors"
)

// Refresher is the backend refresh endpoint.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*backend.Grant, error)
}

// RefreshStore holds the refresh credential issued at session sync.
type RefreshStore interface {
	RefreshToken(ctx context.Context) string
	SaveRefreshToken(ctx context.Context, raw string) error
}

// BackendRenewer renews through the backend refresh endpoint and keeps a
// rotated refresh credential.
type BackendRenewer struct {
	refresher Refresher
	store     RefreshStore
}

func NewBackendRenewer(refresher Refresher, store RefreshStore) *BackendRenewer {
	return &BackendRenewer{refresher: refresher, store: store}
}

func (r *BackendRenewer) Renew(ctx context.Context, _ *credential.Credential) (string, error) {
	refreshToken := r.store.RefreshToken(ctx)
	if refreshToken == "" {
		return "", dErrors.New(dErrors.CodeNoCredential, "no refresh credential")
	}
	grant, err := r.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if grant.RefreshToken != "" && grant.RefreshToken != refreshToken {
		if err := r.store.SaveRefreshToken(ctx, grant.RefreshToken); err != nil {
			return "", err
		}
	}
	return grant.AccessToken, nil
}
