// Package pg wires up a pgx connection pool for the Postgres-backed alert
// store: environment-driven configuration, connection with retry, schema
// migrations via goose, and error classification helpers.
package pg
