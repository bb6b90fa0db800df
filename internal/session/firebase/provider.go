// Package firebase adapts Firebase Authentication to the session store's
// IdentityProvider port and turns sign-in, sign-out and account changes into
// the notification stream the store consumes.
package firebase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"storefront/internal/session"
	dErrors "storefront/pkg/domain-errors"
)

// AuthClient is the subset of *auth.Client the adapter calls.
type AuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Provider publishes principal changes on Notifications. It tracks one
// signed-in account, matching the one-visitor-per-store-set model.
type Provider struct {
	client        AuthClient
	notifications chan *session.Principal
	logger        *slog.Logger

	mu      sync.Mutex
	current *session.Principal
}

type Option func(*Provider)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

func New(client AuthClient, opts ...Option) *Provider {
	p := &Provider{
		client:        client,
		notifications: make(chan *session.Principal, 8),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notifications is the stream consumed by session.Store.Run.
func (p *Provider) Notifications() <-chan *session.Principal {
	return p.notifications
}

// SignIn verifies a freshly issued ID token, records the principal and
// notifies the session store.
func (p *Provider) SignIn(ctx context.Context, idToken string) (*session.Principal, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "id token is required")
	}
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid id token")
	}
	principal, err := p.lookup(ctx, token.UID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.current = principal
	p.mu.Unlock()

	p.notify(ctx, principal)
	return principal, nil
}

// SignOut revokes the account's refresh tokens. When it is the tracked
// account, subscribers are told nobody is signed in.
func (p *Provider) SignOut(ctx context.Context, subjectID string) error {
	if err := p.client.RevokeRefreshTokens(ctx, subjectID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke provider session")
	}

	p.mu.Lock()
	wasCurrent := p.current != nil && p.current.SubjectID == subjectID
	if wasCurrent {
		p.current = nil
	}
	p.mu.Unlock()

	if wasCurrent {
		p.notify(ctx, nil)
	}
	return nil
}

// RoleClaims returns the account's custom claims.
func (p *Provider) RoleClaims(ctx context.Context, subjectID string) (map[string]any, error) {
	user, err := p.client.GetUser(ctx, subjectID)
	if err != nil {
		return nil, normalize(err)
	}
	if user.CustomClaims == nil {
		return map[string]any{}, nil
	}
	return user.CustomClaims, nil
}

// Watch re-reads the tracked account every interval and emits a
// notification when it was deleted, disabled, or its verification or
// profile fields changed. It returns when ctx ends.
func (p *Provider) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Provider) poll(ctx context.Context) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil {
		return
	}

	next, err := p.lookup(ctx, current.SubjectID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			p.logger.WarnContext(ctx, "identity provider poll failed", "subject_id", current.SubjectID, "error", err)
			return
		}
		next = nil
	}

	p.mu.Lock()
	if p.current == nil || p.current.SubjectID != current.SubjectID {
		p.mu.Unlock()
		return
	}
	if next != nil && *next == *p.current {
		p.mu.Unlock()
		return
	}
	p.current = next
	p.mu.Unlock()

	p.notify(ctx, next)
}

// lookup fails with NotFound for deleted accounts and Unauthorized for
// disabled ones.
func (p *Provider) lookup(ctx context.Context, uid string) (*session.Principal, error) {
	user, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, normalize(err)
	}
	if user.Disabled {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account disabled")
	}
	principal := &session.Principal{
		SubjectID:     uid,
		EmailVerified: user.EmailVerified,
	}
	if user.UserInfo != nil {
		principal.Email = user.Email
		principal.DisplayName = user.DisplayName
		principal.PhotoURL = user.PhotoURL
	}
	return principal, nil
}

func (p *Provider) notify(ctx context.Context, principal *session.Principal) {
	select {
	case p.notifications <- principal:
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "dropped identity notification", "error", ctx.Err())
	}
}

func normalize(err error) error {
	if fbauth.IsUserNotFound(err) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "identity provider unavailable")
}
