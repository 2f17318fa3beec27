package alerts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type represents the alert type/severity.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
	TypeCustom  Type = "custom"
)

// Kind identifies the presentation surface an alert belongs to. Each kind
// is a separate storage partition with its own cap.
type Kind string

const (
	KindAlert  Kind = "alert"
	KindToast  Kind = "toast"
	KindModal  Kind = "modal"
	KindInline Kind = "inline"
)

// Action represents a call-to-action button attached to an alert.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Style string `json:"style,omitempty"` // primary, secondary, danger
}

// Alert is the core domain model: one notification and its display and
// lifecycle metadata. The value itself never persists anything; stores do.
type Alert struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Kind      Kind   `json:"kind"`
	Type      Type   `json:"type"`
	Title     string `json:"title,omitempty"`
	Message   string `json:"message"`
	Priority  int    `json:"priority"`

	Active           bool `json:"is_active"`
	Dismissible      bool `json:"dismissible"`
	AutoDismiss      bool `json:"auto_dismiss"`
	AutoDismissDelay int  `json:"auto_dismiss_delay_ms,omitempty"` // milliseconds, rendering hint only

	// Presentation pass-through. The store keeps these opaque.
	Icon           string            `json:"icon,omitempty"`
	CSSClass       string            `json:"css_class,omitempty"`
	Style          string            `json:"style,omitempty"`
	Position       string            `json:"position,omitempty"`
	HTMLContent    string            `json:"html_content,omitempty"`
	DataAttributes map[string]string `json:"data_attributes,omitempty"`
	Context        string            `json:"context,omitempty"`
	Field          string            `json:"field,omitempty"`
	Form           string            `json:"form,omitempty"`
	Actions        []Action          `json:"actions,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// NewAlert creates an alert of the given kind with a generated ID and
// CreatedAt set to now. Options are applied over the documented defaults:
// active, dismissible, priority 0, no expiry.
func NewAlert(kind Kind, t Type, message string, opts Options) Alert {
	now := time.Now()

	a := Alert{
		ID:               uuid.New().String(),
		Kind:             kind,
		Type:             t,
		Title:            opts.Title,
		Message:          message,
		Priority:         opts.Priority,
		Active:           true,
		Dismissible:      true,
		AutoDismiss:      opts.AutoDismiss,
		AutoDismissDelay: opts.AutoDismissDelay,
		Icon:             opts.Icon,
		CSSClass:         opts.CSSClass,
		Style:            opts.Style,
		Position:         opts.Position,
		HTMLContent:      opts.HTMLContent,
		DataAttributes:   opts.DataAttributes,
		Context:          opts.Context,
		Field:            opts.Field,
		Form:             opts.Form,
		Actions:          opts.Actions,
		CreatedAt:        now,
	}

	if opts.Dismissible != nil {
		a.Dismissible = *opts.Dismissible
	}

	switch {
	case opts.ExpiresAt != nil:
		expiresAt := *opts.ExpiresAt
		a.ExpiresAt = &expiresAt
	case opts.TTL > 0:
		expiresAt := now.Add(opts.TTL)
		a.ExpiresAt = &expiresAt
	}

	return a
}

// IsExpired returns true if the alert has an expiry in the past.
func (a Alert) IsExpired() bool {
	if a.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*a.ExpiresAt)
}

// IsVisible reports whether the alert passes the retrieval filter:
// active, not dismissed and not expired.
func (a Alert) IsVisible() bool {
	return a.Active && a.DismissedAt == nil && !a.IsExpired()
}

// ShouldAutoDismiss is a rendering hint: true when auto-dismiss is on and
// a positive delay is set. The store never enforces it.
func (a Alert) ShouldAutoDismiss() bool {
	return a.AutoDismiss && a.AutoDismissDelay > 0
}

// Dismiss soft-deletes the alert by stamping DismissedAt. Idempotent.
func (a *Alert) Dismiss() {
	if a.DismissedAt != nil {
		return
	}
	now := time.Now()
	a.DismissedAt = &now
}

// MarkAsRead stamps ReadAt. Read alerts stay visible.
func (a *Alert) MarkAsRead() {
	if a.ReadAt != nil {
		return
	}
	now := time.Now()
	a.ReadAt = &now
}

// Deactivate administratively hides the alert, distinct from dismissal.
func (a *Alert) Deactivate() {
	a.Active = false
}

// principalKey returns the owner's scope token, matching Principal.Key.
func (a Alert) principalKey() string {
	if a.UserID != "" {
		return "user:" + a.UserID
	}
	return "session:" + a.SessionID
}

// MarshalJSON emits the flat transport representation, including the
// computed lifecycle booleans consumed by rendering layers.
func (a Alert) MarshalJSON() ([]byte, error) {
	type plain Alert
	return json.Marshal(struct {
		plain
		IsExpired         bool `json:"is_expired"`
		IsValid           bool `json:"is_valid"`
		ShouldAutoDismiss bool `json:"should_auto_dismiss"`
	}{
		plain:             plain(a),
		IsExpired:         a.IsExpired(),
		IsValid:           a.IsVisible(),
		ShouldAutoDismiss: a.ShouldAutoDismiss(),
	})
}
