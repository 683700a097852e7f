package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"unitrader/internal/audit"
	"unitrader/internal/checkout"
	"unitrader/internal/session"
	"unitrader/internal/session/userrecord"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

// HeaderWebhookSecret authenticates the payment collaborator's completion
// callback against the configured bcrypt hash.
const HeaderWebhookSecret = "X-Webhook-Secret"

// CheckoutHandler starts checkouts and receives the payment completion
// webhook.
type CheckoutHandler struct {
	service           *checkout.Service
	manager           *session.Manager
	users             userrecord.Store
	recorder          *audit.Recorder
	webhookSecretHash string
	logger            *slog.Logger
}

func NewCheckoutHandler(
	service *checkout.Service,
	manager *session.Manager,
	users userrecord.Store,
	recorder *audit.Recorder,
	webhookSecretHash string,
	logger *slog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		service:           service,
		manager:           manager,
		users:             users,
		recorder:          recorder,
		webhookSecretHash: webhookSecretHash,
		logger:            logger,
	}
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Post("/checkout", h.start)
	r.Post("/checkout/webhook", h.webhook)
}

type checkoutResponse struct {
	RedirectID string `json:"redirect_id"`
}

func (h *CheckoutHandler) start(w http.ResponseWriter, r *http.Request) {
	st, err := requireSession(r, h.manager)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	redirectID, err := h.service.Start(r.Context(), st)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, checkoutResponse{RedirectID: redirectID})
}

type webhookRequest struct {
	UserID     string   `json:"user_id" valid:"required"`
	SessionID  string   `json:"session_id"`
	RedirectID string   `json:"redirect_id" valid:"required"`
	ItemIDs    []string `json:"item_ids"`
}

// webhook records a completed payment: purchases land on the user record
// and the originating session's cart is cleared.
func (h *CheckoutHandler) webhook(w http.ResponseWriter, r *http.Request) {
	if !checkout.VerifyWebhookSecret(h.webhookSecretHash, r.Header.Get(HeaderWebhookSecret)) {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeUnauthorized, "bad webhook secret"))
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return
	}

	userID := domain.UserID(req.UserID)
	rec, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown user"))
		return
	}

	// Processors retry callbacks after timeouts, so a redirect id that has
	// already settled is acknowledged without crediting purchases again.
	for _, done := range rec.Checkouts {
		if done == req.RedirectID {
			writeJSON(w, r, h.logger, http.StatusNoContent, nil)
			return
		}
	}
	rec.Checkouts = append(rec.Checkouts, req.RedirectID)
	for _, id := range req.ItemIDs {
		rec.Purchases = append(rec.Purchases, domain.ItemID(id))
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := h.users.Save(r.Context(), rec); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeInternal, "recording purchases"))
		return
	}

	if req.SessionID != "" {
		if sid, err := domain.ParseSessionID(req.SessionID); err == nil {
			if st, err := h.manager.Get(sid); err == nil {
				st.Clear()
			}
		}
	}

	h.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionPaymentCompleted,
		UserID:    userID,
		SessionID: req.SessionID,
		Subject:   req.RedirectID,
	})
	writeJSON(w, r, h.logger, http.StatusNoContent, nil)
}
