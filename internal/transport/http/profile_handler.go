package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"unitrader/internal/platform/middleware"
	"unitrader/internal/profile"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

// ProfileHandler serves the aggregated profile for the token's user. It is
// registered behind RequireAuth; the user id always comes from the claims.
type ProfileHandler struct {
	service *profile.Service
	logger  *slog.Logger
}

func NewProfileHandler(service *profile.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/profile", h.view)
}

func (h *ProfileHandler) view(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, r, h.logger, dErrors.New(dErrors.CodeUnauthorized, "no authenticated user"))
		return
	}

	p, err := h.service.View(r.Context(), domain.UserID(userID))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, p)
}
