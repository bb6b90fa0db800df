// Package session keeps the visitor's sign-in state. It is a small state
// machine over Loading, Authenticated, Unauthenticated and Error, advanced
// only by identity-provider notifications, explicit refreshes, and
// invalidation after a failed credential renewal.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storefront/internal/credential"
	"storefront/internal/platform/broadcast"
	"storefront/internal/platform/metrics"
	"storefront/pkg/email"
	"storefront/pkg/platform/sentinel"
)

type Store struct {
	provider IdentityProvider
	profiles ProfileDocuments

	// resolveMu serializes transitions so a slow profile fetch can never
	// overwrite the result of a later notification.
	resolveMu sync.Mutex

	mu        sync.RWMutex
	session   Session
	principal *Principal
	// resolving is the subject being resolved under resolveMu; settled is
	// the subject the current session reflects. Both change under mu.
	resolving string
	settled   string

	stream  *broadcast.Broadcaster[*UserProfile]
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New constructs a Store in the Loading state.
func New(provider IdentityProvider, profiles ProfileDocuments, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		profiles: profiles,
		session:  Session{State: StateLoading},
		stream:   broadcast.New[*UserProfile](),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run applies notifications in arrival order until ctx ends or the channel
// closes. A nil notification means the provider reports nobody signed in.
func (s *Store) Run(ctx context.Context, notifications <-chan *Principal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-notifications:
			if !ok {
				return nil
			}
			s.HandleNotification(ctx, p)
		}
	}
}

// HandleNotification applies one identity-provider notification and returns
// the resulting session.
func (s *Store) HandleNotification(ctx context.Context, p *Principal) Session {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	s.mu.Lock()
	s.principal = clonePrincipal(p)
	s.resolving = subjectOf(p)
	s.mu.Unlock()

	return s.resolve(ctx, p)
}

// Refresh re-resolves the last reported principal, e.g. after a profile edit.
func (s *Store) Refresh(ctx context.Context) (*UserProfile, error) {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	s.mu.Lock()
	p := clonePrincipal(s.principal)
	s.resolving = subjectOf(p)
	s.mu.Unlock()

	sess := s.resolve(ctx, p)
	if sess.State == StateError {
		return nil, errors.New(sess.ErrorMessage)
	}
	return sess.User, nil
}

// Invalidate drops the cached profile and moves to Unauthenticated without
// consulting the provider. The token manager calls it when renewal fails.
func (s *Store) Invalidate(ctx context.Context, reason string) {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	s.mu.Lock()
	s.principal = nil
	s.resolving = ""
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session invalidated", "reason", reason)
	s.transition(Session{State: StateUnauthenticated})
}

func (s *Store) resolve(ctx context.Context, p *Principal) Session {
	if p == nil {
		return s.transition(Session{State: StateUnauthenticated})
	}

	if !p.EmailVerified {
		if err := s.provider.SignOut(ctx, p.SubjectID); err != nil {
			return s.fail(ctx, "failed to sign out unverified account", err)
		}
		s.logger.InfoContext(ctx, "signed out unverified account", "subject_id", p.SubjectID)
		return s.transition(Session{State: StateUnauthenticated})
	}

	claims, err := s.provider.RoleClaims(ctx, p.SubjectID)
	if err != nil {
		return s.fail(ctx, "failed to resolve role claims", err)
	}

	profile, err := s.loadProfile(ctx, p)
	if err != nil {
		return s.fail(ctx, "failed to load profile", err)
	}
	profile.IsAdmin = isAdmin(claims)

	return s.transition(Session{State: StateAuthenticated, User: profile})
}

// loadProfile fetches the profile document, creating it with defaults on
// first sign-in, and stamps the login time.
func (s *Store) loadProfile(ctx context.Context, p *Principal) (*UserProfile, error) {
	now := s.now()

	profile, err := s.profiles.Get(ctx, p.SubjectID)
	if errors.Is(err, sentinel.ErrNotFound) {
		profile = &UserProfile{
			SubjectID:     p.SubjectID,
			Email:         p.Email,
			DisplayName:   p.DisplayName,
			EmailVerified: true,
			PhotoRef:      p.PhotoURL,
			CreatedAt:     now,
			LastLoginAt:   now,
		}
		if profile.DisplayName == "" {
			profile.DisplayName = email.DisplayName(p.Email)
		}
		if err := s.profiles.Save(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}

	profile.EmailVerified = true
	profile.LastLoginAt = now
	if profile.Email == "" {
		profile.Email = p.Email
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		s.logger.WarnContext(ctx, "failed to record login time", "subject_id", p.SubjectID, "error", err)
	}
	return profile, nil
}

func (s *Store) fail(ctx context.Context, msg string, err error) Session {
	s.logger.ErrorContext(ctx, msg, "error", err)
	return s.transition(Session{State: StateError, ErrorMessage: msg + ": " + err.Error()})
}

func (s *Store) transition(next Session) Session {
	s.mu.Lock()
	prev := s.session.State
	s.session = next
	s.settled = s.resolving
	s.mu.Unlock()

	if s.metrics != nil && prev != next.State {
		s.metrics.IncrementSessionTransition(next.State.String())
	}
	s.stream.Publish(next.User.clone())
	return Session{State: next.State, User: next.User.clone(), ErrorMessage: next.ErrorMessage}
}

// Session returns a copy of the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{State: s.session.State, User: s.session.User.clone(), ErrorMessage: s.session.ErrorMessage}
}

// AwaitSubject blocks until the session has settled on a notification for
// subjectID, or ctx ends. The settled state may still be Unauthenticated
// (unverified email) or Error.
func (s *Store) AwaitSubject(ctx context.Context, subjectID string) (Session, error) {
	updates, cancel := s.stream.Subscribe()
	defer cancel()

	for {
		if sess, ok := s.settledOn(subjectID); ok {
			return sess, nil
		}
		select {
		case <-ctx.Done():
			return s.Session(), ctx.Err()
		case <-updates:
		}
	}
}

func (s *Store) settledOn(subjectID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settled != subjectID || s.session.State == StateLoading {
		return Session{}, false
	}
	return Session{State: s.session.State, User: s.session.User.clone(), ErrorMessage: s.session.ErrorMessage}, true
}

// CurrentUser is the cached profile, or nil unless authenticated.
func (s *Store) CurrentUser() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.clone()
}

// IsAuthenticated is true only in the Authenticated state.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.State == StateAuthenticated && s.session.User != nil
}

// Subscribe streams the current user (nil when signed out). The first value
// arrives once the store leaves Loading.
func (s *Store) Subscribe() (<-chan *UserProfile, func()) {
	return s.stream.Subscribe()
}

func isAdmin(claims map[string]any) bool {
	if v, ok := claims["admin"].(bool); ok && v {
		return true
	}
	if role, ok := claims["role"].(string); ok && strings.EqualFold(role, credential.RoleAdmin) {
		return true
	}
	return false
}

func subjectOf(p *Principal) string {
	if p == nil {
		return ""
	}
	return p.SubjectID
}

func clonePrincipal(p *Principal) *Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
