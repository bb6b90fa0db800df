package checkout

import (
	"storefront/internal/credential"
	"storefront/internal/profile"
)

// Reason is the machine-readable cause of a refused checkout.
type Reason string

const (
	ReasonNotAuthenticated  Reason = "not_authenticated"
	ReasonSessionExpired    Reason = "session_expired"
	ReasonCartEmpty         Reason = "cart_empty"
	ReasonProfileIncomplete Reason = "profile_incomplete"
	ReasonInternalError     Reason = "internal_error"
)

// Redirect targets.
const (
	TargetLogin        = "/login"
	TargetCatalog      = "/catalog"
	TargetPersonalData = "/profile/personal-data"
	TargetHome         = "/home"
)

// DefaultReturnPath is used when the guarded request carries no usable path.
const DefaultReturnPath = "/checkout"

// Result is a point-in-time authorization decision. It is never persisted.
type Result struct {
	Allowed        bool            `json:"allowed"`
	Reason         Reason          `json:"reason,omitempty"`
	RedirectTarget string          `json:"redirect_target,omitempty"`
	Message        string          `json:"message,omitempty"`
	ReturnPath     string          `json:"return_path,omitempty"`
	MissingFields  []profile.Field `json:"missing_fields,omitempty"`
	// Modal asks the login page to open as a dialog.
	Modal bool `json:"modal,omitempty"`

	// Credential is the fresh credential an allowed checkout proceeds with.
	Credential *credential.Credential `json:"-"`
	SubjectID  string                 `json:"-"`
}

// Failure is what a check returns when it refuses checkout.
type Failure struct {
	Reason        Reason
	Message       string
	MissingFields []profile.Field
}
