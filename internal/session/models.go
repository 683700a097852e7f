package session

import "unitrader/pkg/domain"

// Phase tracks where a session sits in the authentication gate.
type Phase int

const (
	// PhaseAnonymous is the initial phase; commerce actions are intercepted.
	PhaseAnonymous Phase = iota
	// PhaseAuthenticating means an auth prompt has been surfaced and a
	// provider round-trip may be in flight.
	PhaseAuthenticating
	// PhaseAuthenticated means a user is attached; commerce actions proceed.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// FailureReason reports why an authentication attempt fell back to anonymous.
type FailureReason string

const (
	ReasonDomainRejected FailureReason = "domain_rejected"
	ReasonUserCancelled  FailureReason = "user_cancelled"
	ReasonProviderError  FailureReason = "provider_error"
)

// User is the authenticated identity attached to a session.
type User struct {
	ID        domain.UserID `json:"id"`
	Handle    string        `json:"handle"`
	AvatarURL string        `json:"avatar_url"`
	Email     string        `json:"email"`
}

// Item is the session store's opaque view of a catalog record: just enough
// to build a cart line. Catalog metadata stays behind the catalog boundary.
type Item struct {
	ID        domain.ItemID
	Title     string
	UnitPrice float64
	Available bool
}

// CartLine is one line of the cart, keyed by item ID. The cart holds at most
// one line per item; see Store.AddToCart for the replace semantics.
type CartLine struct {
	ItemID    domain.ItemID `json:"item_id"`
	Title     string        `json:"title"`
	Quantity  int           `json:"quantity"`
	Available bool          `json:"available"`
	UnitPrice float64       `json:"unit_price"`
}

// State is an immutable snapshot of a session. Readers always get copies;
// nothing outside the store holds a mutable reference.
type State struct {
	ID    domain.SessionID `json:"session_id"`
	Phase Phase            `json:"-"`
	User  *User            `json:"user,omitempty"`
	Cart  []CartLine       `json:"cart"`
}
