package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"unitrader/internal/chat"
)

// ChatHandler exposes name normalization for the messaging collaborator.
type ChatHandler struct {
	service *chat.Service
	logger  *slog.Logger
}

func NewChatHandler(service *chat.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

func (h *ChatHandler) Register(r chi.Router) {
	r.Get("/chat/handle", h.handle)
}

type chatHandleResponse struct {
	UID string `json:"uid"`
}

func (h *ChatHandler) handle(w http.ResponseWriter, r *http.Request) {
	uid, err := h.service.HandleFor(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, chatHandleResponse{UID: uid})
}
