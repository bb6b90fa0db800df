package session

import "time"

// State is the sign-in state of the visitor. Exactly one is active.
type State string

const (
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
	StateError           State = "error"
)

func (s State) String() string {
	return string(s)
}

// UserProfile is the extended profile document merged with provider claims.
type UserProfile struct {
	SubjectID     string    `json:"subject_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	IsAdmin       bool      `json:"is_admin"`
	EmailVerified bool      `json:"email_verified"`
	PhotoRef      string    `json:"photo_ref,omitempty"`
	IconRef       string    `json:"icon_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastLoginAt   time.Time `json:"last_login_at"`
}

func (p *UserProfile) clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Session is the current sign-in state plus the cached profile.
type Session struct {
	State        State        `json:"state"`
	User         *UserProfile `json:"user,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// Principal is what the identity provider reports about the signed-in
// account. A nil *Principal means nobody is signed in.
type Principal struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	DisplayName   string
	PhotoURL      string
}
