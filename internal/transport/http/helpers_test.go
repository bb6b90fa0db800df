package httptransport

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"storefront/internal/checkout"
	"storefront/internal/credential"
	"storefront/internal/platform/logger"
	"storefront/internal/session"
	"storefront/pkg/testutil"
)

// fakeSessions records invalidations and refreshes. AwaitSubject settles
// on an authenticated session for the subject unless settled is set.
type fakeSessions struct {
	mu          sync.Mutex
	current     session.Session
	settled     *session.Session
	settleErr   error
	refreshErr  error
	refreshes   int
	invalidated []string
}

func signedIn(subjectID, addr string) *fakeSessions {
	return &fakeSessions{current: session.Session{
		State: session.StateAuthenticated,
		User:  &session.UserProfile{SubjectID: subjectID, Email: addr, EmailVerified: true},
	}}
}

func (f *fakeSessions) Session() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSessions) AwaitSubject(_ context.Context, subjectID string) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settleErr != nil {
		return f.current, f.settleErr
	}
	if f.settled != nil {
		f.current = *f.settled
	} else {
		f.current = session.Session{
			State: session.StateAuthenticated,
			User:  &session.UserProfile{SubjectID: subjectID, EmailVerified: true},
		}
	}
	return f.current, nil
}

func (f *fakeSessions) Refresh(context.Context) (*session.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.current.User, f.refreshErr
}

func (f *fakeSessions) Invalidate(_ context.Context, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, reason)
	f.current = session.Session{State: session.StateUnauthenticated}
}

func mintCredential(t *testing.T) *credential.Credential {
	t.Helper()
	cred := credential.Decode(testutil.MintToken(t, "u1", time.Now(), time.Hour))
	require.NotNil(t, cred)
	return cred
}

// allowGuard stands in for checkout.Guard with a fixed allowed result.
func allowGuard(res checkout.Result) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(checkout.WithResult(r.Context(), res)))
		})
	}
}

func newTestRouter(handlers ...Registrar) chi.Router {
	return NewRouter(RouterConfig{Logger: logger.Discard()}, handlers...)
}
