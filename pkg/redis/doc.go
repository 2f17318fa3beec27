// Package redis wires up a go-redis client for the Redis-backed alert
// store: environment-driven configuration, connection with retries, and a
// healthcheck closure.
package redis
