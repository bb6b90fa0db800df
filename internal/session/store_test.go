package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
)

type fakeProvider struct {
	mu         sync.Mutex
	claims     map[string]any
	claimsErr  error
	signOutErr error
	signedOut  []string
}

func (f *fakeProvider) RoleClaims(_ context.Context, _ string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claims, f.claimsErr
}

func (f *fakeProvider) SignOut(_ context.Context, subjectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, subjectID)
	return f.signOutErr
}

type failingProfiles struct {
	err error
}

func (f failingProfiles) Get(context.Context, string) (*UserProfile, error) { return nil, f.err }
func (f failingProfiles) Save(context.Context, *UserProfile) error { return f.err }

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func verified(id string) *Principal {
	return &Principal{SubjectID: id, Email: "jane.doe@example.com", EmailVerified: true}
}

type StoreSuite struct {
	suite.Suite
	ctx      context.Context
	provider *fakeProvider
	profiles *InMemoryProfiles
	metrics  *metrics.Metrics
	store    *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.provider = &fakeProvider{}
	s.profiles = NewInMemoryProfiles()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.store = New(s.provider, s.profiles,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func (s *StoreSuite) TestInitialStateIsLoading() {
	s.Equal(StateLoading, s.store.Session().State)
	s.False(s.store.IsAuthenticated())
	s.Nil(s.store.CurrentUser())
}

func (s *StoreSuite) TestNoPrincipalIsUnauthenticated() {
	sess := s.store.HandleNotification(s.ctx, nil)

	s.Equal(StateUnauthenticated, sess.State)
	s.Nil(sess.User)
	s.False(s.store.IsAuthenticated())
}

func (s *StoreSuite) TestUnverifiedPrincipalIsSignedOut() {
	p := verified("u1")
	p.EmailVerified = false

	sess := s.store.HandleNotification(s.ctx, p)

	s.Equal(StateUnauthenticated, sess.State)
	s.Equal([]string{"u1"}, s.provider.signedOut)
	s.False(s.store.IsAuthenticated())
}

func (s *StoreSuite) TestFirstSignInCreatesDefaultProfile() {
	sess := s.store.HandleNotification(s.ctx, verified("u1"))

	s.Require().Equal(StateAuthenticated, sess.State)
	s.Require().NotNil(sess.User)
	s.Equal("u1", sess.User.SubjectID)
	s.Equal("Jane Doe", sess.User.DisplayName)
	s.True(sess.User.EmailVerified)
	s.Equal(fixedNow, sess.User.CreatedAt)
	s.Equal(fixedNow, sess.User.LastLoginAt)

	stored, err := s.profiles.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Jane Doe", stored.DisplayName)
}

func (s *StoreSuite) TestExistingProfileGetsLoginStampAndRoleFlag() {
	created := fixedNow.Add(-30 * 24 * time.Hour)
	s.Require().NoError(s.profiles.Save(s.ctx, &UserProfile{
		SubjectID:   "u1",
		Email:       "jane.doe@example.com",
		DisplayName: "J. Doe",
		CreatedAt:   created,
		LastLoginAt: created,
	}))
	s.provider.claims = map[string]any{"role": "admin"}

	sess := s.store.HandleNotification(s.ctx, verified("u1"))

	s.Require().Equal(StateAuthenticated, sess.State)
	s.Equal("J. Doe", sess.User.DisplayName)
	s.True(sess.User.IsAdmin)
	s.Equal(created, sess.User.CreatedAt)
	s.Equal(fixedNow, sess.User.LastLoginAt)
}

func (s *StoreSuite) TestAdminBoolClaim() {
	s.provider.claims = map[string]any{"admin": true}
	sess := s.store.HandleNotification(s.ctx, verified("u1"))
	s.True(sess.User.IsAdmin)
}

func (s *StoreSuite) TestProviderErrorFailsClosed() {
	s.store.HandleNotification(s.ctx, verified("u1"))
	s.Require().True(s.store.IsAuthenticated())

	s.provider.claimsErr = errors.New("provider down")
	sess := s.store.HandleNotification(s.ctx, verified("u1"))

	s.Equal(StateError, sess.State)
	s.Nil(sess.User, "cached profile must be cleared on error")
	s.Contains(sess.ErrorMessage, "provider down")
	s.False(s.store.IsAuthenticated())
	s.Nil(s.store.CurrentUser())
}

func (s *StoreSuite) TestSignOutFailureIsError() {
	s.provider.signOutErr = errors.New("revoke failed")
	p := verified("u1")
	p.EmailVerified = false

	sess := s.store.HandleNotification(s.ctx, p)

	s.Equal(StateError, sess.State)
}

func (s *StoreSuite) TestErrorRecoversOnNextNotification() {
	s.provider.claimsErr = errors.New("boom")
	s.store.HandleNotification(s.ctx, verified("u1"))
	s.Require().Equal(StateError, s.store.Session().State)

	sess := s.store.HandleNotification(s.ctx, nil)
	s.Equal(StateUnauthenticated, sess.State)
}

func (s *StoreSuite) TestSignOutThenSignIn() {
	s.store.HandleNotification(s.ctx, verified("u1"))
	s.store.HandleNotification(s.ctx, nil)
	s.Equal(StateUnauthenticated, s.store.Session().State)

	s.store.HandleNotification(s.ctx, verified("u1"))
	s.Equal(StateAuthenticated, s.store.Session().State)
}

func (s *StoreSuite) TestRefreshReResolvesLastPrincipal() {
	s.store.HandleNotification(s.ctx, verified("u1"))

	s.provider.claims = map[string]any{"admin": true}
	user, err := s.store.Refresh(s.ctx)

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.True(user.IsAdmin)
}

func (s *StoreSuite) TestRefreshSurfacesErrors() {
	s.store.HandleNotification(s.ctx, verified("u1"))
	s.provider.claimsErr = errors.New("timeout")

	user, err := s.store.Refresh(s.ctx)

	s.Error(err)
	s.Nil(user)
	s.Equal(StateError, s.store.Session().State)
}

func (s *StoreSuite) TestInvalidate() {
	s.store.HandleNotification(s.ctx, verified("u1"))

	s.store.Invalidate(s.ctx, "renewal failed")

	s.Equal(StateUnauthenticated, s.store.Session().State)
	s.Nil(s.store.CurrentUser())
	user, err := s.store.Refresh(s.ctx)
	s.NoError(err)
	s.Nil(user, "invalidation forgets the principal")
}

func (s *StoreSuite) TestSubscribeStreamsUser() {
	users, cancel := s.store.Subscribe()
	defer cancel()

	s.store.HandleNotification(s.ctx, verified("u1"))
	got := <-users
	s.Require().NotNil(got)
	s.Equal("u1", got.SubjectID)

	s.store.HandleNotification(s.ctx, nil)
	s.Nil(<-users)
}

func (s *StoreSuite) TestCurrentUserIsACopy() {
	s.store.HandleNotification(s.ctx, verified("u1"))
	u := s.store.CurrentUser()
	u.DisplayName = "mutated"
	s.Equal("Jane Doe", s.store.CurrentUser().DisplayName)
}

func (s *StoreSuite) TestTransitionsAreCounted() {
	s.store.HandleNotification(s.ctx, verified("u1"))
	s.store.HandleNotification(s.ctx, nil)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionTransitions.WithLabelValues("authenticated")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionTransitions.WithLabelValues("unauthenticated")))
}

func TestStore_ProfileStoreFailureIsError(t *testing.T) {
	store := New(&fakeProvider{}, failingProfiles{err: errors.New("firestore unavailable")}, WithLogger(logger.Discard()))

	sess := store.HandleNotification(context.Background(), verified("u1"))

	assert.Equal(t, StateError, sess.State)
	assert.Nil(t, sess.User)
}

func TestStore_Run(t *testing.T) {
	store := New(&fakeProvider{}, NewInMemoryProfiles(), WithLogger(logger.Discard()))
	notifications := make(chan *Principal)
	users, cancel := store.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, notifications) }()

	notifications <- verified("u1")
	select {
	case u := <-users:
		require.NotNil(t, u)
		assert.Equal(t, "u1", u.SubjectID)
	case <-time.After(time.Second):
		t.Fatal("no session update")
	}

	stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestStore_RunReturnsWhenChannelCloses(t *testing.T) {
	store := New(&fakeProvider{}, NewInMemoryProfiles(), WithLogger(logger.Discard()))
	notifications := make(chan *Principal)
	close(notifications)

	assert.NoError(t, store.Run(context.Background(), notifications))
}

type slowProfiles struct {
	*InMemoryProfiles
	delay time.Duration
}

func (s slowProfiles) Get(ctx context.Context, subjectID string) (*UserProfile, error) {
	time.Sleep(s.delay)
	return s.InMemoryProfiles.Get(ctx, subjectID)
}

func TestStore_AwaitSubject(t *testing.T) {
	t.Run("waits for a slow resolution to settle", func(t *testing.T) {
		store := New(&fakeProvider{}, slowProfiles{NewInMemoryProfiles(), 50 * time.Millisecond}, WithLogger(logger.Discard()))
		notifications := make(chan *Principal, 1)
		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		go func() { _ = store.Run(ctx, notifications) }()

		notifications <- verified("u1")
		require.Equal(t, StateLoading, store.Session().State)

		waitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		sess, err := store.AwaitSubject(waitCtx, "u1")

		require.NoError(t, err)
		assert.Equal(t, StateAuthenticated, sess.State)
		require.NotNil(t, sess.User)
		assert.Equal(t, "u1", sess.User.SubjectID)
	})

	t.Run("a previous subject does not count", func(t *testing.T) {
		store := New(&fakeProvider{}, NewInMemoryProfiles(), WithLogger(logger.Discard()))
		store.HandleNotification(context.Background(), verified("u1"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		sess, err := store.AwaitSubject(ctx, "u2")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "u1", sess.User.SubjectID)
	})

	t.Run("unverified sign-in settles unauthenticated", func(t *testing.T) {
		store := New(&fakeProvider{}, NewInMemoryProfiles(), WithLogger(logger.Discard()))
		p := verified("u1")
		p.EmailVerified = false
		store.HandleNotification(context.Background(), p)

		sess, err := store.AwaitSubject(context.Background(), "u1")

		require.NoError(t, err)
		assert.Equal(t, StateUnauthenticated, sess.State)
	})

	t.Run("invalidation clears the settled subject", func(t *testing.T) {
		store := New(&fakeProvider{}, NewInMemoryProfiles(), WithLogger(logger.Discard()))
		store.HandleNotification(context.Background(), verified("u1"))
		store.Invalidate(context.Background(), "signed out")

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := store.AwaitSubject(ctx, "u1")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
