package identity

import "github.com/google/uuid"

// Identity binds a request to exactly one cart owner: an authenticated user or
// an anonymous session token. At most one of the two fields is set.
type Identity struct {
	UserID    uuid.UUID
	SessionID string
}

// User builds an authenticated identity.
func User(userID uuid.UUID) Identity {
	return Identity{UserID: userID}
}

// Session builds an anonymous identity from a session token.
func Session(sessionID string) Identity {
	return Identity{SessionID: sessionID}
}

// IsAuthenticated reports whether the identity belongs to a known user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}

// IsZero reports whether the identity carries neither a user nor a session.
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil && i.SessionID == ""
}
