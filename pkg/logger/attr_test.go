package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
}

func TestAlertID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.AlertID(""))

	attr := logger.AlertID("a1")
	assert.Equal(t, "alert_id", attr.Key)
	assert.Equal(t, "a1", attr.Value.String())
}

func TestPrincipalID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.PrincipalID(""))
	assert.Equal(t, "user:42", logger.PrincipalID("user:42").Value.String())
}

func TestSimpleAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alert_type", logger.AlertType("success").Key)
	assert.Equal(t, "kind", logger.Kind("toast").Key)
	assert.Equal(t, int64(3), logger.Count(3).Value.Int64())
	assert.Equal(t, "component", logger.Component("service").Key)
	assert.Equal(t, "backend", logger.Backend("redis").Key)
}
