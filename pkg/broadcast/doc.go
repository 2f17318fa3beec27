// Package broadcast provides a minimal publish/subscribe primitive for
// fanning values out to in-process subscribers.
//
// The in-memory implementation never blocks the publisher: when a
// subscriber's buffer is full the message is dropped for that subscriber.
// Transport layers (SSE handlers, WebSocket bridges) subscribe with a
// request-scoped context and stream whatever arrives.
package broadcast
