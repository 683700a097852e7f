// Package transport exposes the HTTP surface: one handler file per feature,
// a shared error envelope, and the router that binds them behind the
// middleware chain.
package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"unitrader/internal/platform/middleware"
	dErrors "unitrader/pkg/domain-errors"
)

type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(r.Context(), "failed to write response",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

// writeError maps a domain error code onto an HTTP status and emits the
// standard envelope. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	msg := "something went wrong"
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		msg = dErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"code", string(code),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		msg = "something went wrong"
	}

	writeJSON(w, r, logger, status, errorEnvelope{
		Error:       string(code),
		Description: msg,
	})
}
