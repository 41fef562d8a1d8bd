package domain

import "time"

// Session is the signed data bag carried in the session cookie. A zero
// value is an unauthenticated visitor; an invalid or absent cookie must
// always materialize as that zero value, never as an error.
type Session struct {
	User     *Identity `json:"user,omitempty"`
	IssuedAt time.Time `json:"issued_at,omitzero"`
}

// Authenticated reports whether the session carries a verified identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// SetUser binds a verified identity to the session.
func (s *Session) SetUser(identity Identity) {
	s.User = &identity
	if s.IssuedAt.IsZero() {
		s.IssuedAt = time.Now().UTC()
	}
}

// Clear drops all session data, returning it to the anonymous state.
func (s *Session) Clear() {
	s.User = nil
	s.IssuedAt = time.Time{}
}
