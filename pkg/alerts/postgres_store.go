package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per alert in an append-only table.
// Invalidation is soft: Clear and Remove flip is_active, Dismiss stamps
// dismissed_at, so the full history stays queryable via History. Bulk
// state changes are single UPDATE statements and therefore atomic.
type PostgresStore struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewPostgresStore creates a Postgres-backed alert store. The schema is
// shipped as Migrations and applied with pg.Migrate.
func NewPostgresStore(pool *pgxpool.Pool, cfg Config) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		cfg:  cfg.normalize(),
	}
}

const alertColumns = `id, user_id, session_id, kind, type, title, message, priority,
	is_active, dismissible, auto_dismiss, auto_dismiss_delay_ms,
	icon, css_class, style, position, html_content, data_attributes,
	context, field, form_name, actions,
	created_at, expires_at, dismissed_at, read_at`

// visibleWhere is the retrieval filter, shared by every read query.
const visibleWhere = `is_active AND dismissed_at IS NULL AND (expires_at IS NULL OR expires_at > now())`

// scope returns the ownership predicate for a principal with the given
// placeholder number, and the matching argument.
func scope(p Principal, placeholder int) (string, any) {
	if p.IsAuthenticated() {
		return fmt.Sprintf("user_id = $%d", placeholder), p.UserID
	}
	return fmt.Sprintf("session_id = $%d", placeholder), p.SessionID
}

func (s *PostgresStore) Add(ctx context.Context, a Alert) error {
	dataAttrs, err := marshalNullable(a.DataAttributes)
	if err != nil {
		return fmt.Errorf("marshal data attributes: %w", err)
	}
	actions, err := marshalNullable(a.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO alertkit_alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26)`,
		a.ID, a.UserID, a.SessionID, a.Kind, a.Type, a.Title, a.Message, a.Priority,
		a.Active, a.Dismissible, a.AutoDismiss, a.AutoDismissDelay,
		a.Icon, a.CSSClass, a.Style, a.Position, a.HTMLContent, dataAttrs,
		a.Context, a.Field, a.Form, actions,
		a.CreatedAt, a.ExpiresAt, a.DismissedAt, a.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return s.evict(ctx, Principal{UserID: a.UserID, SessionID: a.SessionID}, a.Kind)
}

// evict deactivates everything beyond the newest capFor(kind) visible
// rows, in one statement.
func (s *PostgresStore) evict(ctx context.Context, p Principal, kind Kind) error {
	scopeWhere, scopeArg := scope(p, 1)

	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET is_active = FALSE
		WHERE id IN (
			SELECT id FROM alertkit_alerts
			WHERE `+scopeWhere+` AND kind = $2 AND `+visibleWhere+`
			ORDER BY created_at DESC, id DESC
			OFFSET $3
		)`,
		scopeArg, kind, s.cfg.capFor(kind),
	)
	if err != nil {
		return fmt.Errorf("evict alerts: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)
	return s.query(ctx, `
		SELECT `+alertColumns+` FROM alertkit_alerts
		WHERE `+scopeWhere+` AND kind = $2 AND `+visibleWhere+`
		ORDER BY priority DESC, created_at DESC`,
		scopeArg, kind)
}

func (s *PostgresStore) ListByType(ctx context.Context, p Principal, kind Kind, t Type) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)
	return s.query(ctx, `
		SELECT `+alertColumns+` FROM alertkit_alerts
		WHERE `+scopeWhere+` AND kind = $2 AND type = $3 AND `+visibleWhere+`
		ORDER BY priority DESC, created_at DESC`,
		scopeArg, kind, t)
}

// ListByMinPriority returns visible alerts at or above a priority threshold.
func (s *PostgresStore) ListByMinPriority(ctx context.Context, p Principal, kind Kind, minPriority int) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)
	return s.query(ctx, `
		SELECT `+alertColumns+` FROM alertkit_alerts
		WHERE `+scopeWhere+` AND kind = $2 AND priority >= $3 AND `+visibleWhere+`
		ORDER BY priority DESC, created_at DESC`,
		scopeArg, kind, minPriority)
}

// ListByContext returns visible alerts scoped to a rendering context label.
func (s *PostgresStore) ListByContext(ctx context.Context, p Principal, kind Kind, context string) ([]Alert, error) {
	return s.listByLabel(ctx, p, kind, "context", context)
}

// ListByField returns visible alerts attached to a form field.
func (s *PostgresStore) ListByField(ctx context.Context, p Principal, kind Kind, field string) ([]Alert, error) {
	return s.listByLabel(ctx, p, kind, "field", field)
}

// ListByForm returns visible alerts attached to a form.
func (s *PostgresStore) ListByForm(ctx context.Context, p Principal, kind Kind, form string) ([]Alert, error) {
	return s.listByLabel(ctx, p, kind, "form_name", form)
}

func (s *PostgresStore) listByLabel(ctx context.Context, p Principal, kind Kind, column, value string) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)
	return s.query(ctx, `
		SELECT `+alertColumns+` FROM alertkit_alerts
		WHERE `+scopeWhere+` AND kind = $2 AND `+column+` = $3 AND `+visibleWhere+`
		ORDER BY priority DESC, created_at DESC`,
		scopeArg, kind, value)
}

// History returns the principal's most recent alerts in the partition
// regardless of state, newest first. limit <= 0 means no limit.
func (s *PostgresStore) History(ctx context.Context, p Principal, kind Kind, limit int) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)

	q := `
		SELECT ` + alertColumns + ` FROM alertkit_alerts
		WHERE ` + scopeWhere + ` AND kind = $2
		ORDER BY created_at DESC`
	args := []any{scopeArg, kind}
	if limit > 0 {
		q += ` LIMIT $3`
		args = append(args, limit)
	}

	return s.query(ctx, q, args...)
}

// Stats aggregates the principal's visible alerts in the partition.
type Stats struct {
	Total  int
	Unread int
	ByType map[Type]int
}

// Stats returns per-type counts of the principal's visible alerts.
func (s *PostgresStore) Stats(ctx context.Context, p Principal, kind Kind) (Stats, error) {
	scopeWhere, scopeArg := scope(p, 1)

	rows, err := s.pool.Query(ctx, `
		SELECT type, count(*), count(*) FILTER (WHERE read_at IS NULL)
		FROM alertkit_alerts
		WHERE `+scopeWhere+` AND kind = $2 AND `+visibleWhere+`
		GROUP BY type`,
		scopeArg, kind)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate alerts: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByType: make(map[Type]int)}
	for rows.Next() {
		var t Type
		var total, unread int
		if err := rows.Scan(&t, &total, &unread); err != nil {
			return Stats{}, fmt.Errorf("scan alert stats: %w", err)
		}
		stats.ByType[t] = total
		stats.Total += total
		stats.Unread += unread
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("aggregate alerts: %w", err)
	}

	return stats, nil
}

func (s *PostgresStore) Clear(ctx context.Context, p Principal, kind Kind) error {
	scopeWhere, scopeArg := scope(p, 1)

	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET is_active = FALSE
		WHERE `+scopeWhere+` AND kind = $2 AND is_active`,
		scopeArg, kind)
	if err != nil {
		return fmt.Errorf("clear alerts: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearByType(ctx context.Context, p Principal, kind Kind, t Type) error {
	scopeWhere, scopeArg := scope(p, 1)

	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET is_active = FALSE
		WHERE `+scopeWhere+` AND kind = $2 AND type = $3 AND is_active`,
		scopeArg, kind, t)
	if err != nil {
		return fmt.Errorf("clear alerts by type: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, p Principal, kind Kind, id string) error {
	scopeWhere, scopeArg := scope(p, 1)

	// Foreign or unknown IDs simply match no row.
	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET is_active = FALSE
		WHERE id = $2 AND `+scopeWhere+` AND kind = $3`,
		scopeArg, id, kind)
	if err != nil {
		return fmt.Errorf("remove alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Dismiss(ctx context.Context, p Principal, kind Kind, id string) error {
	scopeWhere, scopeArg := scope(p, 1)

	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET dismissed_at = now()
		WHERE id = $2 AND `+scopeWhere+` AND kind = $3 AND dismissed_at IS NULL`,
		scopeArg, id, kind)
	if err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, p Principal, kind Kind, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	scopeWhere, scopeArg := scope(p, 1)

	_, err := s.pool.Exec(ctx, `
		UPDATE alertkit_alerts SET read_at = now()
		WHERE id = ANY($2) AND `+scopeWhere+` AND kind = $3 AND read_at IS NULL`,
		scopeArg, ids, kind)
	if err != nil {
		return fmt.Errorf("mark alerts read: %w", err)
	}
	return nil
}

func (s *PostgresStore) Flush(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	scopeWhere, scopeArg := scope(p, 1)

	// Deactivate-and-return in one statement keeps the flush atomic,
	// unlike a separate read and clear.
	rows, err := s.pool.Query(ctx, `
		UPDATE alertkit_alerts SET is_active = FALSE
		WHERE `+scopeWhere+` AND kind = $2 AND `+visibleWhere+`
		RETURNING `+alertColumns,
		scopeArg, kind)
	if err != nil {
		return nil, fmt.Errorf("flush alerts: %w", err)
	}

	list, err := collectAlerts(rows)
	if err != nil {
		return nil, err
	}

	// RETURNING order is unspecified; the flushed rows were visible, but
	// is_active was already flipped, so only sorting remains.
	sortForRetrieval(list)
	for i := range list {
		list[i].Active = true // what the caller flushed, not the stored state
	}
	return list, nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Alert, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	return collectAlerts(rows)
}

func collectAlerts(rows pgx.Rows) ([]Alert, error) {
	defer rows.Close()

	list := make([]Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read alert rows: %w", err)
	}
	return list, nil
}

func scanAlert(rows pgx.Rows) (Alert, error) {
	var a Alert
	var dataAttrs, actions []byte

	err := rows.Scan(
		&a.ID, &a.UserID, &a.SessionID, &a.Kind, &a.Type, &a.Title, &a.Message, &a.Priority,
		&a.Active, &a.Dismissible, &a.AutoDismiss, &a.AutoDismissDelay,
		&a.Icon, &a.CSSClass, &a.Style, &a.Position, &a.HTMLContent, &dataAttrs,
		&a.Context, &a.Field, &a.Form, &actions,
		&a.CreatedAt, &a.ExpiresAt, &a.DismissedAt, &a.ReadAt,
	)
	if err != nil {
		return Alert{}, fmt.Errorf("scan alert row: %w", err)
	}

	if dataAttrs != nil {
		if err := json.Unmarshal(dataAttrs, &a.DataAttributes); err != nil {
			return Alert{}, fmt.Errorf("unmarshal data attributes: %w", err)
		}
	}
	if actions != nil {
		if err := json.Unmarshal(actions, &a.Actions); err != nil {
			return Alert{}, fmt.Errorf("unmarshal actions: %w", err)
		}
	}

	return a, nil
}

// marshalNullable keeps empty collections as SQL NULL instead of empty
// JSON documents, preserving round-trip fidelity.
func marshalNullable(v any) ([]byte, error) {
	switch value := v.(type) {
	case map[string]string:
		if value == nil {
			return nil, nil
		}
	case []Action:
		if value == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
