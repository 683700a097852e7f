// Package domain holds the typed identifiers shared across features.
package domain

import "github.com/google/uuid"

// UserID identifies a user. The value comes from the external auth provider
// and is treated as opaque; it is not required to be a UUID.
type UserID string

func (id UserID) String() string { return string(id) }

// IsZero reports whether the ID is unset. SetUser preconditions hang off this.
func (id UserID) IsZero() bool { return id == "" }

// SessionID identifies one client session. Sessions are minted locally, so
// these are real UUIDs.
type SessionID uuid.UUID

// NewSessionID mints a fresh session identifier.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (id SessionID) String() string { return uuid.UUID(id).String() }

// ParseSessionID parses the wire form of a session ID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

// ItemID identifies a catalog item. Item records come from the external
// content platform, which keys them with opaque strings.
type ItemID string

func (id ItemID) String() string { return string(id) }
