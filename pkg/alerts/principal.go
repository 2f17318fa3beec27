package alerts

// Principal identifies the owner of a set of alerts: an authenticated user
// or an anonymous browser session. Exactly one identifier is authoritative.
type Principal struct {
	UserID    string
	SessionID string
}

// User creates a principal for an authenticated user.
func User(id string) Principal {
	return Principal{UserID: id}
}

// Anonymous creates a principal for an unauthenticated session.
func Anonymous(sessionID string) Principal {
	return Principal{SessionID: sessionID}
}

// IsAuthenticated returns true when the principal carries a user ID.
// The user ID wins if both identifiers are set.
func (p Principal) IsAuthenticated() bool {
	return p.UserID != ""
}

// IsZero reports whether the principal carries no identifier at all.
func (p Principal) IsZero() bool {
	return p.UserID == "" && p.SessionID == ""
}

// Key returns the storage scope token for this principal. Alerts are
// partitioned by this key (plus kind) in every backend.
func (p Principal) Key() string {
	if p.IsAuthenticated() {
		return "user:" + p.UserID
	}
	return "session:" + p.SessionID
}
