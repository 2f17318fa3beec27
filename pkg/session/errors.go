package session

import "errors"

var (
	// ErrNotFound is returned when no session exists for the given token.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired is returned when the session exists but has expired.
	ErrExpired = errors.New("session: expired")
	// ErrInvalidSession is returned when a session is nil or has no token.
	ErrInvalidSession = errors.New("session: invalid session")
)
