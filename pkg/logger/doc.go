// Package logger provides a thin factory around log/slog with sensible
// defaults for library and application code.
//
// The factory produces JSON output at INFO level unless configured
// otherwise, which matches what log aggregation systems expect. Attr
// helpers keep attribute keys consistent across packages.
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithTextFormatter(),
//	    logger.WithAttr(slog.String("service", "alertkit")),
//	)
//	log.Info("alert stored", logger.AlertID(id), logger.PrincipalID(p.Key()))
package logger
