package backend

import (
	"context"
	"net/http"
	"strings"

	dErrors "storefront/pkg/domain-errors"
)

// Grant is the backend's answer to session sync and refresh.
type Grant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	SubjectID    string `json:"subject_id,omitempty"`
}

// SyncSession exchanges a freshly issued identity token for a
// backend-confirmed session.
func (c *Client) SyncSession(ctx context.Context, idToken string) (*Grant, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "id token is required")
	}
	var grant Grant
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/session",
		Body:   map[string]string{"id_token": idToken},
	}, &grant)
	if err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "backend returned no access token")
	}
	return &grant, nil
}

// Refresh exchanges a refresh credential for a new access credential.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Grant, error) {
	if refreshToken == "" {
		return nil, dErrors.New(dErrors.CodeNoCredential, "no refresh credential")
	}
	var grant Grant
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   map[string]string{"refresh_token": refreshToken},
	}, &grant)
	if err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "backend returned no access token")
	}
	return &grant, nil
}
