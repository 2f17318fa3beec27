package alerts

import "errors"

var (
	// ErrTypeRequired is returned when an alert is added without a type.
	ErrTypeRequired = errors.New("alert type is required")
	// ErrMessageRequired is returned when an alert is added without a message.
	ErrMessageRequired = errors.New("alert message is required")
	// ErrPrincipalRequired is returned when an operation is scoped to a
	// principal with no identifier.
	ErrPrincipalRequired = errors.New("principal is required")
	// ErrUnknownBackend is returned by NewStore for an unrecognized
	// backend name.
	ErrUnknownBackend = errors.New("unknown alert storage backend")
	// ErrRedisClientRequired is returned when the redis backend is
	// selected without providing a client.
	ErrRedisClientRequired = errors.New("redis backend selected but no client provided")
	// ErrPostgresPoolRequired is returned when the postgres backend is
	// selected without providing a connection pool.
	ErrPostgresPoolRequired = errors.New("postgres backend selected but no connection pool provided")
)
