// Package checkout produces a well-formed cart for the external payment
// collaborator and hands back its redirect session id. Payment itself is
// entirely the vendor's business.
package checkout

import (
	"context"
	"log/slog"

	"unitrader/internal/audit"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session"
	dErrors "unitrader/pkg/domain-errors"
)

// Redirector is the payment collaborator: it accepts a serialized cart and
// returns a redirect session id the browser is sent to.
type Redirector interface {
	CreateSession(ctx context.Context, cart []session.CartLine) (string, error)
}

type Service struct {
	redirector Redirector
	recorder   *audit.Recorder
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(redirector Redirector, recorder *audit.Recorder, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		redirector: redirector,
		recorder:   recorder,
		metrics:    m,
		logger:     logger,
	}
}

// Start begins checkout for the session's current cart and returns the
// redirect session id. The cart must be non-empty and every line
// purchasable; validation happens before any network call.
func (s *Service) Start(ctx context.Context, st *session.Store) (string, error) {
	user, ok := st.CurrentUser()
	if !ok {
		return "", dErrors.New(dErrors.CodeAuthRequired, "sign in to continue")
	}

	cart := st.Cart()
	if len(cart) == 0 {
		return "", dErrors.New(dErrors.CodeValidation, "cart is empty")
	}
	for _, line := range cart {
		if !line.Available {
			return "", dErrors.New(dErrors.CodeValidation, "item is not available: "+line.ItemID.String())
		}
		if line.Quantity <= 0 {
			return "", dErrors.New(dErrors.CodeValidation, "invalid quantity for item: "+line.ItemID.String())
		}
	}

	redirectID, err := s.redirector.CreateSession(ctx, cart)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeProviderError, "checkout collaborator failed")
	}

	s.metrics.CheckoutsStarted.Inc()
	s.recorder.Record(ctx, audit.Event{
		Action:    audit.ActionCheckoutStarted,
		UserID:    user.ID,
		SessionID: st.ID().String(),
		Subject:   redirectID,
	})
	return redirectID, nil
}
