package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"unitrader/internal/session"
	"unitrader/internal/signin"
	dErrors "unitrader/pkg/domain-errors"
)

// SignInHandler exposes the authentication flow. The browser runs the
// provider popup itself and posts the outcome; the handler replays that
// outcome through the sign-in service so gating, validation, and
// persistence happen server-side.
type SignInHandler struct {
	service *signin.Service
	manager *session.Manager
	logger  *slog.Logger
}

func NewSignInHandler(service *signin.Service, manager *session.Manager, logger *slog.Logger) *SignInHandler {
	return &SignInHandler{service: service, manager: manager, logger: logger}
}

func (h *SignInHandler) Register(r chi.Router) {
	r.Post("/auth/signin", h.signIn)
	r.Post("/auth/signout", h.signOut)
}

type signInRequest struct {
	// Cancelled reports that the user closed the popup; no account follows.
	Cancelled bool `json:"cancelled"`
	// ProviderError carries the provider's failure message, if any.
	ProviderError string `json:"provider_error"`

	Account struct {
		ID          string `json:"id"`
		Email       string `json:"email" valid:"email,optional"`
		DisplayName string `json:"display_name"`
		PhotoURL    string `json:"photo_url" valid:"url,optional"`
	} `json:"account"`
}

type signInResponse struct {
	SessionID string       `json:"session_id"`
	User      session.User `json:"user"`
	Token     string       `json:"token"`
}

func (h *SignInHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return
	}

	st := resolveSession(w, r, h.manager)
	result, err := h.service.SignIn(r.Context(), st, outcomeProvider{req: req})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, h.logger, http.StatusOK, signInResponse{
		SessionID: st.ID().String(),
		User:      result.User,
		Token:     result.Token,
	})
}

func (h *SignInHandler) signOut(w http.ResponseWriter, r *http.Request) {
	st, err := requireSession(r, h.manager)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.service.SignOut(r.Context(), st)
	h.manager.End(st.ID())
	writeJSON(w, r, h.logger, http.StatusNoContent, nil)
}

// outcomeProvider adapts a posted popup outcome onto the provider contract.
type outcomeProvider struct {
	req signInRequest
}

func (p outcomeProvider) SignIn(_ context.Context) (signin.Account, error) {
	if p.req.Cancelled {
		return signin.Account{}, signin.ErrPopupClosed
	}
	if p.req.ProviderError != "" {
		return signin.Account{}, dErrors.New(dErrors.CodeProviderError, p.req.ProviderError)
	}
	return signin.Account{
		ID:          p.req.Account.ID,
		Email:       p.req.Account.Email,
		DisplayName: p.req.Account.DisplayName,
		PhotoURL:    p.req.Account.PhotoURL,
	}, nil
}
