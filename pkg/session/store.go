package session

import "context"

// Store defines the interface for session persistence.
type Store interface {
	// Get retrieves a session by token. Returns ErrNotFound when no
	// session exists and ErrExpired when it exists but has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Save stores or replaces a session keyed by its token.
	Save(ctx context.Context, session *Session) error

	// Delete removes a session by token. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
