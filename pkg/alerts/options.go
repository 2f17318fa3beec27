package alerts

import "time"

// Options carries the optional attributes accepted when adding an alert.
// The zero value means "defaults": priority 0, dismissible, no expiry.
type Options struct {
	Title    string
	Priority int

	// TTL sets ExpiresAt relative to creation time. ExpiresAt, when set,
	// takes precedence and may lie in the past (the alert is then born
	// expired and never retrieved).
	TTL       time.Duration
	ExpiresAt *time.Time

	AutoDismiss      bool
	AutoDismissDelay int // milliseconds

	// Dismissible defaults to true when nil.
	Dismissible *bool

	Icon           string
	CSSClass       string
	Style          string
	Position       string
	HTMLContent    string
	DataAttributes map[string]string
	Context        string
	Field          string
	Form           string
	Actions        []Action
}

// merge overlays o on top of defaults. Zero-value fields in o keep the
// default; set fields win.
func (o Options) merge(defaults Options) Options {
	out := defaults

	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Priority != 0 {
		out.Priority = o.Priority
	}
	if o.TTL != 0 {
		out.TTL = o.TTL
	}
	if o.ExpiresAt != nil {
		out.ExpiresAt = o.ExpiresAt
	}
	if o.AutoDismiss {
		out.AutoDismiss = true
	}
	if o.AutoDismissDelay != 0 {
		out.AutoDismissDelay = o.AutoDismissDelay
	}
	if o.Dismissible != nil {
		out.Dismissible = o.Dismissible
	}
	if o.Icon != "" {
		out.Icon = o.Icon
	}
	if o.CSSClass != "" {
		out.CSSClass = o.CSSClass
	}
	if o.Style != "" {
		out.Style = o.Style
	}
	if o.Position != "" {
		out.Position = o.Position
	}
	if o.HTMLContent != "" {
		out.HTMLContent = o.HTMLContent
	}
	if o.DataAttributes != nil {
		out.DataAttributes = o.DataAttributes
	}
	if o.Context != "" {
		out.Context = o.Context
	}
	if o.Field != "" {
		out.Field = o.Field
	}
	if o.Form != "" {
		out.Form = o.Form
	}
	if o.Actions != nil {
		out.Actions = o.Actions
	}

	return out
}

// mergeOpts folds a variadic options slice over per-kind defaults.
// Later entries win over earlier ones.
func mergeOpts(defaults Options, opts []Options) Options {
	out := defaults
	for _, o := range opts {
		out = o.merge(out)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
