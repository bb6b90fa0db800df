package checkout

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/credential"
	"storefront/internal/profile"
	"storefront/internal/session"
	dErrors "storefront/pkg/domain-errors"
)

// Messages shown to the visitor.
const (
	MessageNotAuthenticated = "Please sign in to continue to checkout."
	MessageSessionExpired   = "Your session expired. Please sign in again."
	MessageCartEmpty        = "Your cart is empty. Add something before checking out."
	MessageInternalError    = "Something went wrong while preparing checkout. Please try again."
)

// evaluation carries what earlier checks learned to later ones.
type evaluation struct {
	session    session.Session
	credential *credential.Credential
}

// check is one ordered step. A non-nil Failure refuses checkout; a non-nil
// error is unexpected and ends in ReasonInternalError.
type check struct {
	name string
	run  func(ctx context.Context, ev *evaluation) (*Failure, error)
}

// checkIdentity passes only an authenticated session with a cached user.
// Loading and Error count as signed out.
func checkIdentity(sess session.Session) *Failure {
	if sess.State != session.StateAuthenticated || sess.User == nil {
		return &Failure{Reason: ReasonNotAuthenticated, Message: MessageNotAuthenticated}
	}
	return nil
}

// checkFreshness maps token manager outcomes onto the pipeline. Missing,
// malformed and unrenewable credentials all mean the session expired. Any
// other error, including a request that stopped waiting on a renewal, is
// returned unchanged and leaves the session alone.
func checkFreshness(cred *credential.Credential, err error) (*Failure, error) {
	if err == nil && cred != nil {
		return nil, nil
	}
	if err == nil {
		return &Failure{Reason: ReasonSessionExpired, Message: MessageSessionExpired}, nil
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNoCredential,
		dErrors.CodeMalformedCredential,
		dErrors.CodeCredentialExpired,
		dErrors.CodeRenewalFailed:
		return &Failure{Reason: ReasonSessionExpired, Message: MessageSessionExpired}, nil
	}
	return nil, err
}

func checkCart(count int) *Failure {
	if count < 1 {
		return &Failure{Reason: ReasonCartEmpty, Message: MessageCartEmpty}
	}
	return nil
}

func checkProfile(p *profile.CustomerProfile) *Failure {
	missing := p.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	return &Failure{
		Reason:        ReasonProfileIncomplete,
		Message:       incompleteMessage(missing),
		MissingFields: missing,
	}
}

func incompleteMessage(missing []profile.Field) string {
	return fmt.Sprintf("Please complete your profile before checkout. Missing: %s.",
		strings.Join(profile.Labels(missing), ", "))
}
