package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/platform/middleware"
	"storefront/internal/session"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// AuthHandler turns a provider sign-in into backend credentials and a
// session, and tears both down on sign-out.
type AuthHandler struct {
	provider IdentityProvider
	backend  SessionSyncer
	creds    CredentialWriter
	sessions Sessions
	logger   *slog.Logger
}

func NewAuthHandler(provider IdentityProvider, backend SessionSyncer, creds CredentialWriter, sessions Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		backend:  backend,
		creds:    creds,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/auth/session", h.handleSignIn)
		r.Get("/auth/session", h.handleGetSession)
		r.Post("/auth/signout", h.handleSignOut)
	})
}

type signInRequest struct {
	IDToken string `json:"id_token"`
}

type signInResponse struct {
	SubjectID     string `json:"subject_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// handleSignIn syncs the backend session before the provider is told about
// the principal, so an authenticated session never lacks a credential. It
// answers only once the session has settled on the new subject.
func (h *AuthHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req signInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.IDToken == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id_token is required"))
		return
	}

	grant, err := h.backend.SyncSession(ctx, req.IDToken)
	if err != nil {
		h.logger.WarnContext(ctx, "session sync failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if err := h.creds.Save(ctx, grant.AccessToken); err != nil {
		h.logger.ErrorContext(ctx, "failed to store credential",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if err := h.creds.SaveRefreshToken(ctx, grant.RefreshToken); err != nil {
		h.logger.WarnContext(ctx, "failed to store refresh token",
			"request_id", requestID,
			"error", err,
		)
	}

	principal, err := h.provider.SignIn(ctx, req.IDToken)
	if err != nil {
		h.creds.Clear(ctx)
		h.logger.WarnContext(ctx, "provider sign-in rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.sessions.AwaitSubject(ctx, principal.SubjectID)
	if err != nil {
		h.logger.WarnContext(ctx, "session did not settle after sign-in",
			"request_id", requestID,
			"subject_id", principal.SubjectID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "session is not ready"))
		return
	}
	if err := settledSignIn(sess); err != nil {
		h.creds.Clear(ctx)
		h.logger.WarnContext(ctx, "sign-in did not authenticate the session",
			"request_id", requestID,
			"subject_id", principal.SubjectID,
			"state", sess.State,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "signed in",
		"request_id", requestID,
		"subject_id", principal.SubjectID,
	)
	httputil.WriteJSON(w, http.StatusOK, signInResponse{
		SubjectID:     principal.SubjectID,
		Email:         principal.Email,
		EmailVerified: principal.EmailVerified,
	})
}

// settledSignIn maps a settled session that is not authenticated onto an
// error: an unverified email ends signed out, a resolution failure in Error.
func settledSignIn(sess session.Session) error {
	switch sess.State {
	case session.StateAuthenticated:
		return nil
	case session.StateError:
		return dErrors.New(dErrors.CodeUnavailable, "failed to load the signed-in account")
	default:
		return dErrors.New(dErrors.CodeUnauthorized, "email address is not verified")
	}
}

func (h *AuthHandler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.sessions.Session())
}

func (h *AuthHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sess := h.sessions.Session()
	if sess.State == session.StateAuthenticated && sess.User != nil {
		if err := h.provider.SignOut(ctx, sess.User.SubjectID); err != nil {
			h.logger.WarnContext(ctx, "provider sign-out failed",
				"request_id", requestID,
				"subject_id", sess.User.SubjectID,
				"error", err,
			)
		}
	}
	h.creds.Clear(ctx)
	h.sessions.Invalidate(ctx, "signed out")

	w.WriteHeader(http.StatusNoContent)
}
