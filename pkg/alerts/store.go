package alerts

import "context"

// Store is the storage contract implemented by every backend. All
// operations are scoped to one principal and one kind partition; Add
// derives the partition from the alert itself.
//
// Substrate failures (unreachable database, broken connection) propagate
// to the caller. Read-time inconsistencies (expired entries, dangling
// index members) are resolved locally and never surface as errors.
type Store interface {
	// Add persists the alert under its principal and kind, then applies
	// the partition's eviction cap: oldest-inserted surviving alerts are
	// removed first.
	Add(ctx context.Context, a Alert) error

	// List returns the principal's visible alerts for the kind, sorted
	// by priority descending then creation time descending.
	List(ctx context.Context, p Principal, kind Kind) ([]Alert, error)

	// ListByType is List restricted to one alert type.
	ListByType(ctx context.Context, p Principal, kind Kind, t Type) ([]Alert, error)

	// Clear invalidates all of the principal's alerts in the partition.
	Clear(ctx context.Context, p Principal, kind Kind) error

	// ClearByType is Clear restricted to one alert type.
	ClearByType(ctx context.Context, p Principal, kind Kind, t Type) error

	// Remove invalidates a single alert by ID. Unknown or foreign IDs
	// are a no-op, not an error.
	Remove(ctx context.Context, p Principal, kind Kind, id string) error

	// Dismiss stamps DismissedAt on one alert, hiding it from retrieval
	// while keeping the record where the backend retains history.
	// Unknown IDs are a no-op.
	Dismiss(ctx context.Context, p Principal, kind Kind, id string) error

	// MarkRead stamps ReadAt on the given alerts. Read alerts stay
	// visible. Unknown IDs are skipped.
	MarkRead(ctx context.Context, p Principal, kind Kind, ids ...string) error

	// Flush returns the current visible list and clears the partition.
	// Best effort: the read and the clear are not atomic across
	// concurrent requests.
	Flush(ctx context.Context, p Principal, kind Kind) ([]Alert, error)
}
