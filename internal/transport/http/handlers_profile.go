package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/checkout"
	"storefront/internal/platform/middleware"
	"storefront/internal/profile"
	"storefront/internal/session"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// ProfileHandler serves the personal-data form checkout sends incomplete
// customers to.
type ProfileHandler struct {
	profiles ProfileService
	tokens   TokenEnsurer
	sessions Sessions
	logger   *slog.Logger
}

func NewProfileHandler(profiles ProfileService, tokens TokenEnsurer, sessions Sessions, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/profile/personal-data", h.handleGet)
		r.Put("/profile/personal-data", h.handleUpdate)
	})
}

type personalDataResponse struct {
	Profile       *profile.CustomerProfile `json:"profile"`
	Complete      bool                     `json:"complete"`
	MissingFields []profile.Field          `json:"missing_fields,omitempty"`
	// ReturnURL is where the form sends the customer once complete.
	ReturnURL string `json:"return_url,omitempty"`
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, bearer, err := h.identify(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.profiles.Fetch(ctx, bearer, user.SubjectID, user.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to fetch personal data",
			"request_id", middleware.GetRequestID(ctx),
			"subject_id", user.SubjectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, personalData(p, r))
}

func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	user, bearer, err := h.identify(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var p profile.CustomerProfile
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	// The subject always comes from the session; completeness from the backend.
	p.SubjectID = user.SubjectID
	p.Complete = false
	if p.Email == "" {
		p.Email = user.Email
	}

	updated, err := h.profiles.Update(ctx, bearer, &p)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update personal data",
			"request_id", requestID,
			"subject_id", user.SubjectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if _, err := h.sessions.Refresh(ctx); err != nil {
		h.logger.WarnContext(ctx, "session refresh after profile update failed",
			"request_id", requestID,
			"error", err,
		)
	}

	h.logger.InfoContext(ctx, "personal data updated",
		"request_id", requestID,
		"subject_id", user.SubjectID,
	)
	httputil.WriteJSON(w, http.StatusOK, personalData(updated, r))
}

// identify requires an authenticated session and a fresh credential.
func (h *ProfileHandler) identify(r *http.Request) (*session.UserProfile, string, error) {
	sess := h.sessions.Session()
	if sess.State != session.StateAuthenticated || sess.User == nil {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "sign in required")
	}
	cred, err := h.tokens.EnsureFresh(r.Context())
	if err != nil {
		return nil, "", err
	}
	return sess.User, cred.RawToken, nil
}

func personalData(p *profile.CustomerProfile, r *http.Request) personalDataResponse {
	resp := personalDataResponse{
		Profile:       p,
		Complete:      p.IsComplete(),
		MissingFields: p.MissingFields(),
	}
	if ret := r.URL.Query().Get("returnUrl"); ret != "" {
		resp.ReturnURL = checkout.SanitizeReturnPath(ret)
	}
	return resp
}
