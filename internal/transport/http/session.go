package transport

import (
	"net/http"

	"unitrader/internal/session"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

// HeaderSessionID carries the browser session across requests. The server
// issues one on first contact and echoes it back on every response.
const HeaderSessionID = "X-Session-ID"

// resolveSession finds the caller's session store, starting a fresh
// anonymous session when the header is absent or stale. The response header
// always carries the effective session id.
func resolveSession(w http.ResponseWriter, r *http.Request, manager *session.Manager) *session.Store {
	if raw := r.Header.Get(HeaderSessionID); raw != "" {
		if id, err := domain.ParseSessionID(raw); err == nil {
			if st, err := manager.Get(id); err == nil {
				w.Header().Set(HeaderSessionID, st.ID().String())
				return st
			}
		}
	}
	st := manager.Begin()
	w.Header().Set(HeaderSessionID, st.ID().String())
	return st
}

// requireSession is the strict variant: the caller must present a live
// session id, and a missing or stale one is an error.
func requireSession(r *http.Request, manager *session.Manager) (*session.Store, error) {
	raw := r.Header.Get(HeaderSessionID)
	if raw == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "missing "+HeaderSessionID+" header")
	}
	id, err := domain.ParseSessionID(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed session id")
	}
	st, err := manager.Get(id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown session")
	}
	return st, nil
}
