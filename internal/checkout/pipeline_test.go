package checkout

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"storefront/internal/checkout/mocks"
	"storefront/internal/credential"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/profile"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/token"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
	"storefront/pkg/testutil"
)

// =============================================================================
// Checkout Pipeline Test Suite
// =============================================================================
// Every check is backed by a strict mock, so a check that should have been
// skipped after an earlier refusal fails the test when it is called.

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type PipelineSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	sessions *mocks.MockSessionReader
	tokens   *mocks.MockTokenEnsurer
	cart     *mocks.MockCartCounter
	profiles *mocks.MockProfileFetcher
	metrics  *metrics.Metrics
	pipeline *Pipeline
	cred     *credential.Credential
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.sessions = mocks.NewMockSessionReader(s.ctrl)
	s.tokens = mocks.NewMockTokenEnsurer(s.ctrl)
	s.cart = mocks.NewMockCartCounter(s.ctrl)
	s.profiles = mocks.NewMockProfileFetcher(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())

	var err error
	s.pipeline, err = New(s.sessions, s.tokens, s.cart, s.profiles,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)

	s.cred = credential.Decode(testutil.MintToken(s.T(), "u1", fixedNow, time.Hour))
	s.Require().NotNil(s.cred)
}

func (s *PipelineSuite) TearDownTest() {
	s.ctrl.Finish()
}

func authenticated() session.Session {
	return session.Session{
		State: session.StateAuthenticated,
		User:  &session.UserProfile{SubjectID: "u1", Email: "jane@example.com", EmailVerified: true},
	}
}

func completeCustomer() *profile.CustomerProfile {
	return &profile.CustomerProfile{
		SubjectID:     "u1",
		LegalName:     "Jane Doe",
		Documents:     []profile.IdentityDocument{{Kind: "passport", Number: "X1", Valid: true}},
		Phone:         "+15550100",
		PhoneVerified: true,
		DateOfBirth:   "1990-04-01",
		Gender:        "female",
	}
}

// passThrough sets up every check before `upTo` to pass.
func (s *PipelineSuite) passThrough(upTo string) {
	s.sessions.EXPECT().Session().Return(authenticated())
	if upTo == StepFreshness {
		return
	}
	s.tokens.EXPECT().EnsureFresh(gomock.Any()).Return(s.cred, nil)
	if upTo == StepCart {
		return
	}
	s.cart.EXPECT().Count().Return(2)
}

// =============================================================================
// Constructor
// =============================================================================

func (s *PipelineSuite) TestNewRequiresEveryPort() {
	_, err := New(nil, s.tokens, s.cart, s.profiles)
	s.ErrorContains(err, "session reader is required")
	_, err = New(s.sessions, nil, s.cart, s.profiles)
	s.ErrorContains(err, "token ensurer is required")
	_, err = New(s.sessions, s.tokens, nil, s.profiles)
	s.ErrorContains(err, "cart counter is required")
	_, err = New(s.sessions, s.tokens, s.cart, nil)
	s.ErrorContains(err, "profile fetcher is required")
}

// =============================================================================
// Identity
// =============================================================================

func (s *PipelineSuite) TestIdentityShortCircuits() {
	for _, sess := range []session.Session{
		{State: session.StateUnauthenticated},
		{State: session.StateLoading},
		{State: session.StateError, ErrorMessage: "provider down"},
		{State: session.StateAuthenticated},
	} {
		s.Run(string(sess.State), func() {
			s.sessions.EXPECT().Session().Return(sess)

			res := s.pipeline.Authorize(s.ctx, "/checkout")

			s.False(res.Allowed)
			s.Equal(ReasonNotAuthenticated, res.Reason)
			s.Equal(TargetLogin, res.RedirectTarget)
			s.Equal("/checkout", res.ReturnPath)
			s.True(res.Modal)
			s.Equal(MessageNotAuthenticated, res.Message)
		})
	}
}

// =============================================================================
// Credential freshness
// =============================================================================

func (s *PipelineSuite) TestFreshnessFailuresExpireTheSession() {
	for _, code := range []dErrors.Code{
		dErrors.CodeNoCredential,
		dErrors.CodeMalformedCredential,
		dErrors.CodeRenewalFailed,
	} {
		s.Run(string(code), func() {
			s.passThrough(StepFreshness)
			s.tokens.EXPECT().EnsureFresh(gomock.Any()).Return(nil, dErrors.New(code, "no"))
			s.sessions.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Times(1)

			res := s.pipeline.Authorize(s.ctx, "/checkout/payment")

			s.Equal(ReasonSessionExpired, res.Reason)
			s.Equal(TargetLogin, res.RedirectTarget)
			s.Equal("/checkout/payment", res.ReturnPath)
			s.False(res.Modal)
		})
	}
}

func (s *PipelineSuite) TestUnexpectedFreshnessErrorIsInternal() {
	s.passThrough(StepFreshness)
	s.tokens.EXPECT().EnsureFresh(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeUnavailable, "kv down"))

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.Equal(ReasonInternalError, res.Reason)
	s.Equal(TargetHome, res.RedirectTarget)
	s.Empty(res.ReturnPath)
}

func (s *PipelineSuite) TestAbandonedRenewalWaitIsInternalAndKeepsSession() {
	s.passThrough(StepFreshness)
	s.tokens.EXPECT().EnsureFresh(gomock.Any()).
		Return(nil, dErrors.Wrap(context.DeadlineExceeded, dErrors.CodeInternal, "stopped waiting for credential renewal"))

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.Equal(ReasonInternalError, res.Reason)
	s.Equal(TargetHome, res.RedirectTarget)
}

func (s *PipelineSuite) TestChecksShareOneRequestTime() {
	var seen []time.Time
	s.sessions.EXPECT().Session().Return(authenticated())
	s.tokens.EXPECT().EnsureFresh(gomock.Any()).DoAndReturn(func(ctx context.Context) (*credential.Credential, error) {
		seen = append(seen, requestcontext.Now(ctx))
		return s.cred, nil
	})
	s.cart.EXPECT().Count().Return(1)
	s.profiles.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) (*profile.CustomerProfile, error) {
			time.Sleep(2 * time.Millisecond)
			seen = append(seen, requestcontext.Now(ctx))
			return completeCustomer(), nil
		})

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.True(res.Allowed)
	s.Require().Len(seen, 2)
	s.Equal(seen[0], seen[1])
}

func (s *PipelineSuite) TestPinnedRequestTimeIsKept() {
	pinned := fixedNow.Add(time.Minute)
	s.passThrough(StepFreshness)
	s.tokens.EXPECT().EnsureFresh(gomock.Any()).DoAndReturn(func(ctx context.Context) (*credential.Credential, error) {
		s.Equal(pinned, requestcontext.Now(ctx))
		return nil, dErrors.New(dErrors.CodeUnavailable, "kv down")
	})

	s.pipeline.Authorize(requestcontext.WithTime(s.ctx, pinned), "/checkout")
}

// =============================================================================
// Cart occupancy
// =============================================================================

func (s *PipelineSuite) TestEmptyCart() {
	s.passThrough(StepCart)
	s.cart.EXPECT().Count().Return(0)

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.Equal(ReasonCartEmpty, res.Reason)
	s.Equal(TargetCatalog, res.RedirectTarget)
	s.Empty(res.ReturnPath)
	s.Equal(MessageCartEmpty, res.Message)
}

// =============================================================================
// Profile completeness
// =============================================================================

func (s *PipelineSuite) TestIncompleteProfileNamesPhoneVerification() {
	s.passThrough(StepProfile)
	customer := completeCustomer()
	customer.PhoneVerified = false
	s.profiles.EXPECT().Fetch(gomock.Any(), s.cred.RawToken, "u1", "jane@example.com").Return(customer, nil)

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.False(res.Allowed)
	s.Equal(ReasonProfileIncomplete, res.Reason)
	s.Equal(TargetPersonalData, res.RedirectTarget)
	s.Equal("/checkout", res.ReturnPath)
	s.Contains(res.MissingFields, profile.FieldPhoneVerification)
	s.Contains(res.Message, "phone verification")
}

func (s *PipelineSuite) TestProfileFetchFailureIsInternal() {
	s.passThrough(StepProfile)
	s.profiles.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeProfileFetchFailed, "backend down"))

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.Equal(ReasonInternalError, res.Reason)
	s.Equal(TargetHome, res.RedirectTarget)
}

// =============================================================================
// Allowed and failure modes
// =============================================================================

func (s *PipelineSuite) TestAllChecksPass() {
	s.passThrough(StepProfile)
	s.profiles.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(completeCustomer(), nil)

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.True(res.Allowed)
	s.Empty(res.Reason)
	s.Empty(res.RedirectTarget)
	s.Equal(s.cred, res.Credential)
	s.Equal("u1", res.SubjectID)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CheckoutDecisions.WithLabelValues("allowed")))
}

func (s *PipelineSuite) TestPanicFailsClosed() {
	s.passThrough(StepCart)
	s.cart.EXPECT().Count().DoAndReturn(func() int { panic("corrupt cart") })

	res := s.pipeline.Authorize(s.ctx, "/checkout")

	s.False(res.Allowed)
	s.Equal(ReasonInternalError, res.Reason)
	s.Equal(TargetHome, res.RedirectTarget)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CheckoutDecisions.WithLabelValues(string(ReasonInternalError))))
}

func (s *PipelineSuite) TestHostileReturnPathIsReplaced() {
	s.sessions.EXPECT().Session().Return(session.Session{State: session.StateUnauthenticated})

	res := s.pipeline.Authorize(s.ctx, "//evil.example.com/steal")

	s.Equal(DefaultReturnPath, res.ReturnPath)
}

func TestCheckFreshness(t *testing.T) {
	cred := &credential.Credential{RawToken: "x"}

	f, err := checkFreshness(cred, nil)
	assert.Nil(t, f)
	assert.NoError(t, err)

	f, err = checkFreshness(nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, ReasonSessionExpired, f.Reason)

	f, err = checkFreshness(nil, dErrors.New(dErrors.CodeCredentialExpired, "expired"))
	assert.NoError(t, err)
	assert.Equal(t, ReasonSessionExpired, f.Reason)
}

type slowRenewer struct {
	release chan struct{}
	raw     string
}

func (r *slowRenewer) Renew(context.Context, *credential.Credential) (string, error) {
	<-r.release
	return r.raw, nil
}

// A request that gives up waiting on a shared renewal must not sign the
// visitor out while that renewal goes on to succeed.
func TestAbandonedRenewalKeepsSessionAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionReader(ctrl)
	sessions.EXPECT().Session().Return(authenticated())
	sessions.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Times(0)

	clock := func() time.Time { return fixedNow }
	creds := credential.NewStore(storage.NewInMemoryStore(), credential.WithClock(clock), credential.WithLogger(logger.Discard()))
	expired := testutil.MintToken(t, "u1", fixedNow.Add(-2*time.Hour), time.Hour)
	require.NoError(t, creds.Save(context.Background(), expired))

	renewer := &slowRenewer{release: make(chan struct{}), raw: testutil.MintToken(t, "u1", fixedNow, time.Hour)}
	tokens := token.NewManager(creds, renewer, sessions,
		token.WithClock(clock),
		token.WithRetryDelay(0),
		token.WithLogger(logger.Discard()),
	)
	p, err := New(sessions, tokens, mocks.NewMockCartCounter(ctrl), mocks.NewMockProfileFetcher(ctrl),
		WithLogger(logger.Discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := p.Authorize(ctx, "/checkout")

	assert.Equal(t, ReasonInternalError, res.Reason)
	assert.Equal(t, TargetHome, res.RedirectTarget)

	close(renewer.release)
	assert.Eventually(t, func() bool {
		c := creds.Get(context.Background())
		return c != nil && c.RawToken == renewer.raw
	}, time.Second, time.Millisecond)
}
