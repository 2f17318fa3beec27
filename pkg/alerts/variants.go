package alerts

import (
	"context"
)

// NewAlertService returns a service for the plain alert kind.
func NewAlertService(store Store, cfg Config, opts ...ServiceOption) *Service {
	return NewService(store, KindAlert, cfg, opts...)
}

// NewToastService returns a service for transient corner notifications.
// Toasts auto-dismiss after five seconds and anchor to the configured
// screen position unless the caller overrides either.
func NewToastService(store Store, cfg Config, opts ...ServiceOption) *Service {
	cfg = cfg.normalize()
	defaults := Options{
		AutoDismiss:      true,
		AutoDismissDelay: 5000,
		Position:         cfg.DefaultToastPosition,
	}
	return NewService(store, KindToast, cfg, append([]ServiceOption{WithDefaults(defaults)}, opts...)...)
}

// NewModalService returns a service for blocking dialogs. Modals are not
// dismissible without an explicit action and carry a default OK action;
// at most one modal is pending per principal, newest wins.
func NewModalService(store Store, cfg Config, opts ...ServiceOption) *Service {
	defaults := Options{
		Dismissible: boolPtr(false),
		Actions: []Action{
			{Label: "OK", Style: "primary"},
		},
	}
	return NewService(store, KindModal, cfg, append([]ServiceOption{WithDefaults(defaults)}, opts...)...)
}

// NewConfirmModalService is NewModalService with confirm/cancel actions
// preconfigured, for destructive-operation prompts.
func NewConfirmModalService(store Store, cfg Config, opts ...ServiceOption) *Service {
	defaults := Options{
		Dismissible: boolPtr(false),
		Actions: []Action{
			{Label: "Confirm", Style: "danger"},
			{Label: "Cancel", Style: "secondary"},
		},
	}
	return NewService(store, KindModal, cfg, append([]ServiceOption{WithDefaults(defaults)}, opts...)...)
}

// InlineService manages alerts anchored to page regions and form fields.
type InlineService struct {
	*Service
}

// NewInlineService returns a service for inline, contextual alerts.
func NewInlineService(store Store, cfg Config, opts ...ServiceOption) *InlineService {
	return &InlineService{Service: NewService(store, KindInline, cfg, opts...)}
}

// AddTo adds an alert scoped to a named page region.
func (s *InlineService) AddTo(ctx context.Context, p Principal, contextName string, t Type, message string, opts ...Options) (Alert, error) {
	return s.Add(ctx, p, t, message, append(opts, Options{Context: contextName})...)
}

// FieldError attaches a validation error to a form field. Field errors
// stay until the field is corrected, so they are never dismissible.
func (s *InlineService) FieldError(ctx context.Context, p Principal, form, field, message string) (Alert, error) {
	return s.Add(ctx, p, TypeError, message, Options{
		Context:     "validation",
		Form:        form,
		Field:       field,
		Dismissible: boolPtr(false),
	})
}

// ListByContext returns the principal's visible alerts for one region.
func (s *InlineService) ListByContext(ctx context.Context, p Principal, contextName string) ([]Alert, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Alert, 0, len(list))
	for _, a := range list {
		if a.Context == contextName {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByField returns the visible alerts attached to one form field.
func (s *InlineService) ListByField(ctx context.Context, p Principal, field string) ([]Alert, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Alert, 0, len(list))
	for _, a := range list {
		if a.Field == field {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByForm returns the visible alerts attached to one form.
func (s *InlineService) ListByForm(ctx context.Context, p Principal, form string) ([]Alert, error) {
	list, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Alert, 0, len(list))
	for _, a := range list {
		if a.Form == form {
			out = append(out, a)
		}
	}
	return out, nil
}
