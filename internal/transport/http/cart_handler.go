package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"unitrader/internal/audit"
	"unitrader/internal/catalog"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

// CartHandler serves the per-session cart. Adds are auth-gated by the
// session store itself; the handler only translates the outcome.
type CartHandler struct {
	manager  *session.Manager
	items    catalog.Store
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewCartHandler(manager *session.Manager, items catalog.Store, recorder *audit.Recorder, m *metrics.Metrics, logger *slog.Logger) *CartHandler {
	return &CartHandler{manager: manager, items: items, recorder: recorder, metrics: m, logger: logger}
}

func (h *CartHandler) Register(r chi.Router) {
	r.Post("/cart/items", h.addItem)
	r.Get("/cart", h.getCart)
}

type addItemRequest struct {
	ItemID   string `json:"item_id" valid:"required"`
	Quantity int    `json:"quantity"`
}

type cartResponse struct {
	SessionID string             `json:"session_id"`
	Cart      []session.CartLine `json:"cart"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		writeError(w, r, h.logger, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	st := resolveSession(w, r, h.manager)
	item, err := h.findItem(r.Context(), domain.ItemID(req.ItemID))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cart, err := st.AddToCart(item.CartView(), req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.CartItemsAdded.Inc()
	if user, ok := st.CurrentUser(); ok {
		h.recorder.Record(r.Context(), audit.Event{
			Action:    audit.ActionCartItemAdded,
			UserID:    user.ID,
			SessionID: st.ID().String(),
			Subject:   req.ItemID,
		})
	}
	writeJSON(w, r, h.logger, http.StatusOK, cartResponse{
		SessionID: st.ID().String(),
		Cart:      cart,
	})
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	st := resolveSession(w, r, h.manager)
	writeJSON(w, r, h.logger, http.StatusOK, cartResponse{
		SessionID: st.ID().String(),
		Cart:      st.Cart(),
	})
}

func (h *CartHandler) findItem(ctx context.Context, id domain.ItemID) (catalog.Item, error) {
	found, err := h.items.ListByIDs(ctx, []domain.ItemID{id})
	if err != nil {
		return catalog.Item{}, dErrors.Wrap(err, dErrors.CodeInternal, "looking up item")
	}
	if len(found) == 0 {
		return catalog.Item{}, dErrors.New(dErrors.CodeNotFound, "item not found: "+id.String())
	}
	return found[0], nil
}
