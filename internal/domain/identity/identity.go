package identity

import (
	"github.com/google/uuid"
)

// Kind tags who is acting on a request.
type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

// Identity is the tagged resolution of the acting party: an authenticated
// user or an anonymous session. Exactly one of UserID/SessionID is set,
// decided once at resolution time and carried through the call chain.
// Downstream code must branch on Kind, never on the shape of an id string.
type Identity struct {
	Kind      Kind
	UserID    uuid.UUID
	SessionID string
}

func ForUser(userID uuid.UUID) Identity {
	return Identity{Kind: KindUser, UserID: userID}
}

func ForGuest(sessionID string) Identity {
	return Identity{Kind: KindGuest, SessionID: sessionID}
}

func (id Identity) IsUser() bool  { return id.Kind == KindUser }
func (id Identity) IsGuest() bool { return id.Kind == KindGuest }

// Zero reports whether the identity was never resolved.
func (id Identity) Zero() bool {
	return id.Kind == "" || (id.Kind == KindUser && id.UserID == uuid.Nil) || (id.Kind == KindGuest && id.SessionID == "")
}
