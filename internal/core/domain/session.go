package domain

// SessionStatus is the lifecycle of a Session. A session starts Initializing
// and moves to Ready exactly once.
type SessionStatus string

const (
	StatusInitializing SessionStatus = "initializing"
	StatusReady        SessionStatus = "ready"
)

// Session is an immutable snapshot of who is logged in.
type Session struct {
	Status   SessionStatus
	Identity *Identity
}

// Loading reports whether the initial restore is still in flight.
func (s Session) Loading() bool { return s.Status != StatusReady }

// Authenticated reports whether a restored identity is present.
func (s Session) Authenticated() bool { return !s.Loading() && s.Identity != nil }

// Role returns the identity's role, or "" when nobody is logged in.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}
