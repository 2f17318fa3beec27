package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	log.Info("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "debug should be filtered at default level")
	require.Contains(t, out, "visible")

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &record), "default output should be JSON")
	assert.Equal(t, "visible", record["msg"])
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithTextFormatter(),
		logger.WithLevel(slog.LevelDebug),
	)

	log.Debug("dev message")

	out := buf.String()
	assert.Contains(t, out, "dev message")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))), "text format should not be JSON")
}

func TestNew_StaticAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "alertkit")),
	)

	log.Info("tagged")

	assert.Contains(t, buf.String(), `"service":"alertkit"`)
}

func TestWithFormat_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestWithDevelopment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithDevelopment("alertkit"),
		logger.WithOutput(&buf),
	)

	log.Debug("verbose")

	out := buf.String()
	assert.Contains(t, out, "verbose")
	assert.Contains(t, out, "env=development")
}
