// Package alerts provides transient user-facing notifications with
// pluggable storage backends and consistent semantics across them.
//
// An alert is a short-lived message (success, error, warning, info or a
// custom type) addressed to a principal: an authenticated user or an
// anonymous session. Alerts come in four presentation kinds, each with
// its own retention cap: plain alerts, toasts, modals and inline
// messages anchored to page regions or form fields.
//
// # Architecture
//
// The package follows a layered architecture:
//
//   - Store: persistence with a uniform visibility, ordering and
//     eviction contract (session, postgres, redis or in-process cache)
//   - Deliverer: optional best-effort real-time fan-out
//   - Service: validation, type sugar and kind-scoped defaults
//
// Every Store implementation applies the same rules: a listed alert is
// active, not dismissed and not expired; results order by priority
// descending then creation time descending; inserting past the cap
// evicts the oldest surviving alerts first.
//
// # Basic Usage
//
//	store, err := alerts.NewStore(alerts.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	svc := alerts.NewToastService(store, alerts.DefaultConfig())
//
//	principal := alerts.User("user123")
//	_, err = svc.Success(ctx, principal, "Profile updated")
//
//	// Render and hand over in one step:
//	toasts, err := svc.Flush(ctx, principal)
//
// # Backends
//
// The backend is a configuration choice, not an API choice:
//
//	cfg := alerts.DefaultConfig()
//	cfg.Backend = "redis"
//
//	store, err := alerts.NewStore(cfg, alerts.WithRedisClient(client))
//
// The postgres backend additionally offers history and per-type counts;
// apply its schema with pg.Migrate and the embedded Migrations FS.
//
// # Real-Time Delivery
//
// Attach a Deliverer to push stored alerts to connected clients:
//
//	deliverer := alerts.NewBroadcastDeliverer(100)
//	svc := alerts.NewToastService(store, cfg, alerts.WithDeliverer(deliverer))
//
//	// In the SSE handler:
//	sub := deliverer.Subscribe(r.Context(), principal)
//	defer sub.Close()
//	for msg := range sub.Receive(r.Context()) {
//	    // write msg.Data to the stream
//	}
//
// Delivery is best effort: alerts are persisted before delivery is
// attempted and a delivery failure never fails the add.
package alerts
