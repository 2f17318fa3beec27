package alerts

import "time"

// Config carries the storage settings shared by all backends. All fields
// have working defaults; load it with pkg/config or fill it in directly.
type Config struct {
	Backend   string `env:"ALERTS_BACKEND" envDefault:"session"` // session, postgres, redis or cache
	KeyPrefix string `env:"ALERTS_KEY_PREFIX" envDefault:"alerts"`

	// DefaultTTL bounds how long redis/cache entries without an explicit
	// expiry live. SessionTTL applies to sessions the session backend
	// creates on first write.
	DefaultTTL time.Duration `env:"ALERTS_DEFAULT_TTL" envDefault:"24h"`
	SessionTTL time.Duration `env:"ALERTS_SESSION_TTL" envDefault:"24h"`

	// Per-kind caps. Insertion beyond the cap evicts the oldest-inserted
	// surviving alerts first.
	MaxAlerts int `env:"ALERTS_MAX_ALERTS" envDefault:"5"`
	MaxToasts int `env:"ALERTS_MAX_TOASTS" envDefault:"20"`
	MaxModals int `env:"ALERTS_MAX_MODALS" envDefault:"1"`
	MaxInline int `env:"ALERTS_MAX_INLINE" envDefault:"50"`

	DefaultToastPosition string `env:"ALERTS_TOAST_POSITION" envDefault:"top-right"`
}

// DefaultConfig returns the defaults used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		Backend:              "session",
		KeyPrefix:            "alerts",
		DefaultTTL:           24 * time.Hour,
		SessionTTL:           24 * time.Hour,
		MaxAlerts:            5,
		MaxToasts:            20,
		MaxModals:            1,
		MaxInline:            50,
		DefaultToastPosition: "top-right",
	}
}

// capFor returns the per-principal alert cap for a partition. Stores
// normalize their config at construction, so caps are always positive.
func (c Config) capFor(kind Kind) int {
	switch kind {
	case KindToast:
		return c.MaxToasts
	case KindModal:
		return c.MaxModals
	case KindInline:
		return c.MaxInline
	default:
		return c.MaxAlerts
	}
}

// normalize fills zero-value fields with defaults so stores can rely on
// the configuration being complete.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = def.KeyPrefix
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = def.DefaultTTL
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = def.SessionTTL
	}
	if c.MaxAlerts <= 0 {
		c.MaxAlerts = def.MaxAlerts
	}
	if c.MaxToasts <= 0 {
		c.MaxToasts = def.MaxToasts
	}
	if c.MaxModals <= 0 {
		c.MaxModals = def.MaxModals
	}
	if c.MaxInline <= 0 {
		c.MaxInline = def.MaxInline
	}
	if c.DefaultToastPosition == "" {
		c.DefaultToastPosition = def.DefaultToastPosition
	}
	return c
}
