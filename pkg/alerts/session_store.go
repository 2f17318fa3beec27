package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

// SessionStore keeps each principal's alerts as one value inside their
// session data bag, the way flash messages traditionally work. The whole
// list is rewritten on every mutation, so concurrent requests are
// last-write-wins. Reads are self-healing: invalid entries (expired,
// dismissed, deactivated) are pruned and the stored list rewritten.
type SessionStore struct {
	sessions session.Store
	cfg      Config
}

// NewSessionStore creates a session-backed alert store on top of the given
// session substrate.
func NewSessionStore(sessions session.Store, cfg Config) *SessionStore {
	return &SessionStore{
		sessions: sessions,
		cfg:      cfg.normalize(),
	}
}

func (s *SessionStore) key(kind Kind) string {
	return s.cfg.KeyPrefix + ":" + string(kind)
}

// load fetches the session for a principal key. A missing or expired
// session reads as "no session" rather than an error.
func (s *SessionStore) load(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// alertsFrom extracts the stored list from the session data bag.
func alertsFrom(sess *session.Session, key string) []Alert {
	raw, ok := sess.Get(key)
	if !ok {
		return nil
	}
	list, ok := raw.([]Alert)
	if !ok {
		// Foreign or corrupted value under our key; start over.
		return nil
	}
	return list
}

func (s *SessionStore) Add(ctx context.Context, a Alert) error {
	token := a.principalKey()

	sess, err := s.load(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		var userID *string
		if a.UserID != "" {
			uid := a.UserID
			userID = &uid
		}
		sess = session.New(token, userID, s.cfg.SessionTTL)
	}

	key := s.key(a.Kind)
	list := append(alertsFrom(sess, key), a)
	sess.Set(key, evictOldest(list, s.cfg.capFor(a.Kind)))

	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session alerts: %w", err)
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	_, visible, err := s.healedList(ctx, p, kind)
	if err != nil {
		return nil, err
	}

	out := make([]Alert, len(visible))
	copy(out, visible)
	sortForRetrieval(out)
	return out, nil
}

func (s *SessionStore) ListByType(ctx context.Context, p Principal, kind Kind, t Type) ([]Alert, error) {
	list, err := s.List(ctx, p, kind)
	if err != nil {
		return nil, err
	}
	return ofType(list, t), nil
}

func (s *SessionStore) Clear(ctx context.Context, p Principal, kind Kind) error {
	sess, err := s.load(ctx, p.Key())
	if err != nil || sess == nil {
		return err
	}

	sess.Delete(s.key(kind))
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session alerts: %w", err)
	}
	return nil
}

func (s *SessionStore) ClearByType(ctx context.Context, p Principal, kind Kind, t Type) error {
	return s.rewrite(ctx, p, kind, func(list []Alert) []Alert {
		kept := make([]Alert, 0, len(list))
		for _, a := range list {
			if a.Type != t {
				kept = append(kept, a)
			}
		}
		return kept
	})
}

func (s *SessionStore) Remove(ctx context.Context, p Principal, kind Kind, id string) error {
	return s.rewrite(ctx, p, kind, func(list []Alert) []Alert {
		kept := make([]Alert, 0, len(list))
		for _, a := range list {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		return kept
	})
}

func (s *SessionStore) Dismiss(ctx context.Context, p Principal, kind Kind, id string) error {
	return s.rewrite(ctx, p, kind, func(list []Alert) []Alert {
		for i := range list {
			if list[i].ID == id {
				list[i].Dismiss()
			}
		}
		return list
	})
}

func (s *SessionStore) MarkRead(ctx context.Context, p Principal, kind Kind, ids ...string) error {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	return s.rewrite(ctx, p, kind, func(list []Alert) []Alert {
		for i := range list {
			if _, ok := wanted[list[i].ID]; ok {
				list[i].MarkAsRead()
			}
		}
		return list
	})
}

func (s *SessionStore) Flush(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	sess, visible, err := s.healedList(ctx, p, kind)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return []Alert{}, nil
	}

	out := make([]Alert, len(visible))
	copy(out, visible)
	sortForRetrieval(out)

	sess.Delete(s.key(kind))
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session alerts: %w", err)
	}
	return out, nil
}

// healedList loads the partition, prunes invalid entries and persists the
// pruned list when anything was dropped. Returned alerts keep insertion
// order.
func (s *SessionStore) healedList(ctx context.Context, p Principal, kind Kind) (*session.Session, []Alert, error) {
	sess, err := s.load(ctx, p.Key())
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, nil
	}

	key := s.key(kind)
	raw := alertsFrom(sess, key)
	visible := visibleOnly(raw)

	if len(visible) != len(raw) {
		sess.Set(key, visible)
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, nil, fmt.Errorf("save session alerts: %w", err)
		}
	}

	return sess, visible, nil
}

// rewrite applies fn to the stored insertion-ordered list and saves the
// result. Missing sessions are a no-op.
func (s *SessionStore) rewrite(ctx context.Context, p Principal, kind Kind, fn func([]Alert) []Alert) error {
	sess, err := s.load(ctx, p.Key())
	if err != nil || sess == nil {
		return err
	}

	key := s.key(kind)
	list := alertsFrom(sess, key)
	if list == nil {
		return nil
	}

	sess.Set(key, fn(list))
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session alerts: %w", err)
	}
	return nil
}
