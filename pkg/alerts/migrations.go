package alerts

import "embed"

// Migrations holds the schema for the Postgres backend, applied with
// pg.Migrate:
//
//	err := pg.Migrate(ctx, pool, alerts.Migrations, "migrations", cfg, log)
//
//go:embed migrations/*.sql
var Migrations embed.FS
