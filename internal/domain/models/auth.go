package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims represents the JWT claims structure issued by the external
// identity provider. The engine only consumes the subject and display name;
// organization membership is asserted by the provider's session claims.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	OrgID                string `json:"org_id,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}

// Identity is the acting identity passed explicitly into every engine
// operation. The engine is a pure function of (identity, args, store state);
// there is no ambient session lookup.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	OrgID  string `json:"org_id,omitempty"` // org asserted by the session claims, if any
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// IsAnonymous reports whether no identity was resolved for the caller.
// Anonymous callers receive empty query results and rejected mutations.
func (id Identity) IsAnonymous() bool {
	return id.UserID == ""
}

// Identity converts verified claims into the engine's acting identity.
func (c *SessionClaims) Identity() Identity {
	return Identity{
		UserID: c.Subject,
		Name:   c.Name,
		OrgID:  c.OrgID,
	}
}
