package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// Service is the entry point callers use: type-specific sugar over one
// configured store, scoped to one presentation kind. A deployment holds
// exactly one store; services for different kinds share it.
//
// Retrieval is read-only. Handing alerts over for at-most-once display is
// an explicit Flush, never a side effect of listing.
type Service struct {
	store     Store
	kind      Kind
	cfg       Config
	defaults  Options
	deliverer Deliverer
	log       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDeliverer attaches a secondary-channel deliverer. Alerts are
// persisted first; delivery failures are logged, never propagated.
func WithDeliverer(d Deliverer) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.deliverer = d
		}
	}
}

// WithDefaults sets kind-level default options merged under every add.
func WithDefaults(defaults Options) ServiceOption {
	return func(s *Service) {
		s.defaults = defaults
	}
}

// NewService creates a service over the given store, scoped to kind.
func NewService(store Store, kind Kind, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		kind:      kind,
		cfg:       cfg.normalize(),
		deliverer: NoOpDeliverer{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the presentation kind this service is bound to.
func (s *Service) Kind() Kind { return s.kind }

// Add validates, persists and (best effort) delivers one alert, returning
// the stored record. A persistence failure propagates: an alert that
// failed to store must never look added.
func (s *Service) Add(ctx context.Context, p Principal, t Type, message string, opts ...Options) (Alert, error) {
	if t == "" {
		return Alert{}, ErrTypeRequired
	}
	if message == "" {
		return Alert{}, ErrMessageRequired
	}
	if p.IsZero() {
		return Alert{}, ErrPrincipalRequired
	}

	a := NewAlert(s.kind, t, message, mergeOpts(s.defaults, opts))
	a.UserID = p.UserID
	a.SessionID = p.SessionID

	if err := s.store.Add(ctx, a); err != nil {
		return Alert{}, fmt.Errorf("add alert: %w", err)
	}

	s.deliver(ctx, a)
	return a, nil
}

// Success adds a success alert.
func (s *Service) Success(ctx context.Context, p Principal, message string, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, TypeSuccess, message, opts...)
}

// Error adds an error alert.
func (s *Service) Error(ctx context.Context, p Principal, message string, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, TypeError, message, opts...)
}

// Warning adds a warning alert.
func (s *Service) Warning(ctx context.Context, p Principal, message string, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, TypeWarning, message, opts...)
}

// Info adds an info alert.
func (s *Service) Info(ctx context.Context, p Principal, message string, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, TypeInfo, message, opts...)
}

// Temporary adds an alert that expires ttl from now.
func (s *Service) Temporary(ctx context.Context, p Principal, t Type, message string, ttl time.Duration, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, t, message, append(opts, Options{TTL: ttl})...)
}

// Flash adds an auto-dismissing alert with the given display delay.
func (s *Service) Flash(ctx context.Context, p Principal, t Type, message string, delayMS int, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, t, message, append(opts, Options{AutoDismiss: true, AutoDismissDelay: delayMS})...)
}

// BatchEntry is one alert in an AddBatch call.
type BatchEntry struct {
	Type    Type    `json:"type"`
	Message string  `json:"message"`
	Title   string  `json:"title,omitempty"`
	Options Options `json:"-"`
}

// AddBatch adds every well-formed entry. Entries missing a type or
// message are skipped, not fatal; a store failure aborts the batch and
// propagates. Returns the alerts actually stored.
func (s *Service) AddBatch(ctx context.Context, p Principal, entries []BatchEntry) ([]Alert, error) {
	stored := make([]Alert, 0, len(entries))

	for i, entry := range entries {
		if entry.Type == "" || entry.Message == "" {
			s.log.LogAttrs(ctx, slog.LevelDebug, "skipping malformed batch entry",
				slog.Int("index", i),
				logger.PrincipalID(p.Key()),
			)
			continue
		}

		opts := entry.Options
		if entry.Title != "" {
			opts.Title = entry.Title
		}

		a := NewAlert(s.kind, entry.Type, entry.Message, opts.merge(s.defaults))
		a.UserID = p.UserID
		a.SessionID = p.SessionID

		if err := s.store.Add(ctx, a); err != nil {
			return stored, fmt.Errorf("add alert %s: %w", a.ID, err)
		}
		stored = append(stored, a)
	}

	if len(stored) > 0 {
		s.deliverBatch(ctx, stored)
	}
	return stored, nil
}

// List returns the principal's visible alerts, priority descending then
// newest first. Listing never mutates delivery state.
func (s *Service) List(ctx context.Context, p Principal) ([]Alert, error) {
	return s.store.List(ctx, p, s.kind)
}

// ListByType is List restricted to one type.
func (s *Service) ListByType(ctx context.Context, p Principal, t Type) ([]Alert, error) {
	return s.store.ListByType(ctx, p, s.kind, t)
}

// Count returns the number of visible alerts.
func (s *Service) Count(ctx context.Context, p Principal) (int, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Has reports whether the principal has any visible alert.
func (s *Service) Has(ctx context.Context, p Principal) (bool, error) {
	n, err := s.Count(ctx, p)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// First returns the highest-ranked visible alert, or nil if none.
func (s *Service) First(ctx context.Context, p Principal) (*Alert, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// Last returns the lowest-ranked visible alert, or nil if none.
func (s *Service) Last(ctx context.Context, p Principal) (*Alert, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[len(list)-1], nil
}

// Clear invalidates all of the principal's alerts in this partition.
func (s *Service) Clear(ctx context.Context, p Principal) error {
	return s.store.Clear(ctx, p, s.kind)
}

// ClearByType is Clear restricted to one type.
func (s *Service) ClearByType(ctx context.Context, p Principal, t Type) error {
	return s.store.ClearByType(ctx, p, s.kind, t)
}

// Remove invalidates one alert by ID. Unknown and foreign IDs are a
// no-op, which makes client retries idempotent.
func (s *Service) Remove(ctx context.Context, p Principal, id string) error {
	return s.store.Remove(ctx, p, s.kind, id)
}

// Dismiss soft-deletes one alert.
func (s *Service) Dismiss(ctx context.Context, p Principal, id string) error {
	return s.store.Dismiss(ctx, p, s.kind, id)
}

// MarkRead stamps the given alerts as acknowledged. Read alerts stay
// visible.
func (s *Service) MarkRead(ctx context.Context, p Principal, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.store.MarkRead(ctx, p, s.kind, ids...)
}

// Flush returns the current visible list and clears the partition: the
// explicit at-most-once handover for callers that render and forget.
func (s *Service) Flush(ctx context.Context, p Principal) ([]Alert, error) {
	return s.store.Flush(ctx, p, s.kind)
}

func (s *Service) deliver(ctx context.Context, a Alert) {
	if err := s.deliverer.Deliver(ctx, a); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "alert stored but delivery failed",
			logger.AlertID(a.ID),
			logger.PrincipalID(a.principalKey()),
			logger.Kind(string(s.kind)),
			logger.Error(err),
		)
	}
}

func (s *Service) deliverBatch(ctx context.Context, list []Alert) {
	if err := s.deliverer.DeliverBatch(ctx, list); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "alert batch stored but delivery failed",
			logger.Count(len(list)),
			logger.Kind(string(s.kind)),
			logger.Error(err),
		)
	}
}
