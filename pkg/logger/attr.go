package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AlertID records the alert identifier under the key "alert_id".
func AlertID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("alert_id", id)
}

// PrincipalID records the owning principal's scope key under "principal".
func PrincipalID(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("principal", key)
}

// AlertType records the alert type under the key "alert_type".
func AlertType(t string) slog.Attr {
	return slog.String("alert_type", t)
}

// Kind records the alert kind (alert, toast, modal, inline) under "kind".
func Kind(k string) slog.Attr {
	return slog.String("kind", k)
}

// Count records an item count under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Backend records the storage backend name under the key "backend".
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}
