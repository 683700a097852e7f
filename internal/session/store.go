// Package session implements the client-session state container: the
// authenticated user, the shopping cart, and the authentication gate that
// intercepts commerce actions from anonymous sessions.
package session

import (
	"sync"

	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

// Store owns the mutable state of one session. Mutations are serialized: a
// mutation completes fully before the next caller observes the store, so no
// reader ever sees a partially applied update. State lives only as long as
// the session; nothing here persists the cart.
type Store struct {
	mu          sync.Mutex
	id          domain.SessionID
	phase       Phase
	user        *User
	cart        []CartLine
	lastFailure FailureReason
}

// New creates an empty store in the anonymous phase. Stores are constructed
// per session and discarded at session end; there is no package-level
// singleton.
func New(id domain.SessionID) *Store {
	return &Store{id: id, phase: PhaseAnonymous}
}

// ID returns the session identifier.
func (s *Store) ID() domain.SessionID { return s.id }

// Phase returns the current authentication phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:    s.id,
		Phase: s.phase,
		User:  s.copyUser(),
		Cart:  s.copyCart(),
	}
}

// CurrentUser returns the attached user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser replaces the session user wholesale. It does not recompute derived
// identity fields; handle and roll number are recomputed on demand (per
// profile view), a deliberate decoupling. A user without an ID is a
// precondition violation and leaves the state untouched.
func (s *Store) SetUser(u User) error {
	if u.ID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidUser, "user is missing an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := u
	s.user = &copied
	return nil
}

// BeginAuth moves an anonymous session into the authenticating phase. It is
// a no-op for sessions already authenticating or authenticated.
func (s *Store) BeginAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAnonymous {
		s.phase = PhaseAuthenticating
	}
}

// CompleteAuth attaches the user and moves the session to authenticated.
// Validation mirrors SetUser; a failed completion leaves the phase alone so
// an abandoned attempt stays recoverable.
func (s *Store) CompleteAuth(u User) error {
	if u.ID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidUser, "user is missing an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := u
	s.user = &copied
	s.phase = PhaseAuthenticated
	return nil
}

// FailAuth records a failed or abandoned attempt and returns the session to
// anonymous. No partial user state survives; the reason is for the caller's
// retry prompt, not an error condition here.
func (s *Store) FailAuth(reason FailureReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAuthenticated {
		// Terminal success never regresses except via explicit sign-out.
		return
	}
	s.lastFailure = reason
	s.user = nil
	s.phase = PhaseAnonymous
}

// LastFailure returns the reason recorded by the most recent FailAuth, or
// the zero value if no attempt has failed.
func (s *Store) LastFailure() FailureReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFailure
}

// AddToCart upserts a cart line for the item and returns a snapshot of the
// updated cart for immediate use (e.g. initiating checkout). If a line for
// the item exists, its quantity and unit price are overwritten — last write
// wins, not additive accumulation. Whether that replace semantic is intended
// product behavior is an open product question; it is preserved as observed.
// Anonymous sessions are intercepted: the session moves to authenticating
// and the caller gets CodeAuthRequired to surface the auth prompt.
func (s *Store) AddToCart(item Item, quantity int) ([]CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAuthenticated {
		if s.phase == PhaseAnonymous {
			s.phase = PhaseAuthenticating
		}
		return nil, dErrors.New(dErrors.CodeAuthRequired, "sign in to continue")
	}

	line := CartLine{
		ItemID:    item.ID,
		Title:     item.Title,
		Quantity:  quantity,
		Available: item.Available,
		UnitPrice: item.UnitPrice,
	}
	replaced := false
	for i := range s.cart {
		if s.cart[i].ItemID == item.ID {
			s.cart[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		s.cart = append(s.cart, line)
	}
	return s.copyCart(), nil
}

// Cart returns a copy of the cart in insertion order.
func (s *Store) Cart() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyCart()
}

// Clear empties the cart. No error conditions.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Reset empties the cart, detaches the user, and returns to anonymous.
// Used on sign-out and session teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	s.user = nil
	s.phase = PhaseAnonymous
}

func (s *Store) copyCart() []CartLine {
	if len(s.cart) == 0 {
		return []CartLine{}
	}
	out := make([]CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) copyUser() *User {
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}
