package alerts

import (
	"cmp"
	"slices"
)

// The retrieval invariants live here, once, so the four backends cannot
// drift apart: visibility filtering, ordering and FIFO eviction.

// visibleOnly returns the alerts passing the retrieval filter: active,
// not dismissed, not expired.
func visibleOnly(list []Alert) []Alert {
	out := make([]Alert, 0, len(list))
	for _, a := range list {
		if a.IsVisible() {
			out = append(out, a)
		}
	}
	return out
}

// ofType filters a list down to one alert type.
func ofType(list []Alert, t Type) []Alert {
	out := make([]Alert, 0, len(list))
	for _, a := range list {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// sortForRetrieval orders alerts by priority descending, then creation
// time descending (newest first). The sort is stable for equal keys.
func sortForRetrieval(list []Alert) {
	slices.SortStableFunc(list, func(a, b Alert) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// evictOldest truncates an insertion-ordered list to the cap, dropping
// from the front (FIFO, not priority-based). Returns the survivors.
func evictOldest(list []Alert, limit int) []Alert {
	if limit <= 0 || len(list) <= limit {
		return list
	}
	return list[len(list)-limit:]
}

// oldestFirst orders alerts by creation time ascending. Used to pick
// eviction victims in backends that do not keep insertion order.
func oldestFirst(list []Alert) {
	slices.SortStableFunc(list, func(a, b Alert) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
