// Package token keeps the stored credential fresh. Renewal is shared: any
// number of concurrent callers produce at most one renewal call.
package token

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/credential"
	"storefront/internal/platform/config"
	"storefront/internal/platform/metrics"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

const renewalKey = "renewal"

// Renewal triggers, used as metric labels.
const (
	TriggerExpired   = "expired"
	TriggerProactive = "proactive"
	TriggerExplicit  = "explicit"
)

// CredentialStore is the slice of credential.Store the manager uses.
type CredentialStore interface {
	Get(ctx context.Context) *credential.Credential
	Save(ctx context.Context, raw string) error
	Clear(ctx context.Context)
}

// Renewer exchanges the current credential for a new raw token.
type Renewer interface {
	Renew(ctx context.Context, current *credential.Credential) (string, error)
}

// SessionInvalidator is told when the credential can no longer be used.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}

type Manager struct {
	creds      CredentialStore
	renewer    Renewer
	session    SessionInvalidator
	threshold  time.Duration
	retryDelay time.Duration
	now        func(context.Context) time.Time
	logger     *slog.Logger
	metrics    *metrics.Metrics

	group      singleflight.Group
	background atomic.Bool
	wg         sync.WaitGroup
}

type Option func(*Manager)

// WithThreshold sets the remaining validity below which renewal starts in
// the background.
func WithThreshold(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.threshold = d
		}
	}
}

// WithRetryDelay sets the pause before the single retry of a failed renewal.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.retryDelay = d
	}
}

// WithClock replaces the request-scoped time with a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = func(context.Context) time.Time { return now() }
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

func NewManager(creds CredentialStore, renewer Renewer, session SessionInvalidator, opts ...Option) *Manager {
	m := &Manager{
		creds:      creds,
		renewer:    renewer,
		session:    session,
		threshold:  config.DefaultRenewalThreshold,
		retryDelay: 250 * time.Millisecond,
		now:        requestcontext.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureFresh returns a usable credential. An expired credential is renewed
// before returning. A credential inside the renewal threshold is returned
// at once while a renewal runs in the background.
func (m *Manager) EnsureFresh(ctx context.Context) (*credential.Credential, error) {
	cred := m.creds.Get(ctx)
	if cred == nil {
		return nil, dErrors.New(dErrors.CodeNoCredential, "no credential")
	}

	now := m.now(ctx)
	if cred.IsExpiredAt(now) {
		return m.renew(ctx, TriggerExpired)
	}
	if cred.RemainingAt(now) < m.threshold {
		m.renewInBackground(ctx)
	}
	return cred, nil
}

// Renew forces a renewal, joining one already in flight.
func (m *Manager) Renew(ctx context.Context) (*credential.Credential, error) {
	return m.renew(ctx, TriggerExplicit)
}

// Wait blocks until background renewals started so far have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) renewInBackground(ctx context.Context) {
	if !m.background.CompareAndSwap(false, true) {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.background.Store(false)

		bg := context.WithoutCancel(ctx)
		if _, err := m.renew(bg, TriggerProactive); err != nil {
			m.logger.WarnContext(bg, "background credential renewal failed", "error", err)
		}
	}()
}

// renew joins the shared renewal call. A caller whose context ends stops
// waiting; the shared call keeps running for the others and decides the
// outcome on its own, so the abandoned wait is not reported as a failure.
func (m *Manager) renew(ctx context.Context, trigger string) (*credential.Credential, error) {
	ch := m.group.DoChan(renewalKey, func() (any, error) {
		return m.doRenew(context.WithoutCancel(ctx), trigger)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*credential.Credential), nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeInternal, "stopped waiting for credential renewal")
	}
}

func (m *Manager) doRenew(ctx context.Context, trigger string) (*credential.Credential, error) {
	current := m.creds.Get(ctx)

	cred, err := m.attempt(ctx, current)
	if err != nil {
		m.logger.InfoContext(ctx, "retrying credential renewal", "trigger", trigger, "error", err)
		m.count(trigger, "retry")
		if m.retryDelay > 0 {
			time.Sleep(m.retryDelay)
		}
		cred, err = m.attempt(ctx, current)
	}

	if err != nil {
		m.count(trigger, "failure")
		// A still-valid credential stays usable until it expires.
		if current == nil || current.IsExpiredAt(m.now(ctx)) {
			m.creds.Clear(ctx)
			if m.session != nil {
				m.session.Invalidate(ctx, "credential renewal failed")
			}
		}
		return nil, dErrors.Wrap(err, dErrors.CodeRenewalFailed, "credential renewal failed")
	}

	m.count(trigger, "success")
	m.logger.InfoContext(ctx, "credential renewed",
		"trigger", trigger,
		"subject_id", cred.Subject,
		"expires_at", cred.ExpiresAt,
	)
	return cred, nil
}

func (m *Manager) attempt(ctx context.Context, current *credential.Credential) (*credential.Credential, error) {
	raw, err := m.renewer.Renew(ctx, current)
	if err != nil {
		return nil, err
	}
	cred := credential.Decode(raw)
	if cred == nil {
		return nil, dErrors.New(dErrors.CodeMalformedCredential, "renewed credential is malformed")
	}
	if cred.IsExpiredAt(m.now(ctx)) {
		return nil, dErrors.New(dErrors.CodeCredentialExpired, "renewed credential is already expired")
	}
	if err := m.creds.Save(ctx, raw); err != nil {
		return nil, err
	}
	return cred, nil
}

func (m *Manager) count(trigger, outcome string) {
	if m.metrics != nil {
		m.metrics.IncrementTokenRenewal(trigger, outcome)
	}
}
