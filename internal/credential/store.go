package credential

import (
	"context"
	"log/slog"
	"math"
	"time"

	"storefront/internal/storage"
	dErrors "storefront/pkg/domain-errors"
)

// Store persists the raw credential under storage.KeyCredential and mirrors
// it to the legacy authToken key. Reads fail safe: any storage problem or
// malformed value reads as "no credential".
type Store struct {
	kv     storage.Store
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists raw after checking it decodes.
func (s *Store) Save(ctx context.Context, raw string) error {
	cred := Decode(raw)
	if cred == nil {
		return dErrors.New(dErrors.CodeMalformedCredential, "credential is malformed")
	}
	if err := s.kv.Set(ctx, storage.KeyCredential, cred.RawToken); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist credential")
	}
	if err := s.kv.Set(ctx, storage.KeyLegacyAuthToken, cred.RawToken); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror legacy auth token", "error", err)
	}
	return nil
}

// Get returns the decoded persisted credential, or nil.
func (s *Store) Get(ctx context.Context) *Credential {
	return Decode(storage.GetOrEmpty(ctx, s.kv, storage.KeyCredential))
}

// SaveRefreshToken keeps the opaque refresh credential issued alongside the
// access token. An empty value removes it.
func (s *Store) SaveRefreshToken(ctx context.Context, raw string) error {
	if raw == "" {
		return s.kv.Delete(ctx, storage.KeyRefreshToken)
	}
	if err := s.kv.Set(ctx, storage.KeyRefreshToken, raw); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist refresh credential")
	}
	return nil
}

// RefreshToken returns the stored refresh credential, or "".
func (s *Store) RefreshToken(ctx context.Context) string {
	return storage.GetOrEmpty(ctx, s.kv, storage.KeyRefreshToken)
}

// Clear removes the credential, its legacy mirror and the refresh credential.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, storage.KeyCredential, storage.KeyLegacyAuthToken, storage.KeyRefreshToken); err != nil {
		s.logger.WarnContext(ctx, "failed to clear credential", "error", err)
	}
}

// Decode is the store-bound form of the package Decode.
func (s *Store) Decode(raw string) *Credential {
	return Decode(raw)
}

// IsExpired is true for malformed tokens and for tokens whose exp <= now.
func (s *Store) IsExpired(raw string) bool {
	return Decode(raw).IsExpiredAt(s.now())
}

// RemainingMinutes is the whole minutes of validity left, floored, never negative.
func (s *Store) RemainingMinutes(raw string) int {
	remaining := Decode(raw).RemainingAt(s.now())
	return int(math.Floor(remaining.Minutes()))
}

// Now exposes the store clock so freshness decisions share one time source.
func (s *Store) Now() time.Time {
	return s.now()
}
