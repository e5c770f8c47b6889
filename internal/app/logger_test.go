package app

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyLoggerWritesMessageAndAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "pretty"}, &buf).With(slog.String("component", "http"))

	logger.Warn("redis ping", slog.Any("error", errors.New("dial tcp: refused")))

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "redis ping")
	assert.Contains(t, out, `"component":"http"`)
	assert.Contains(t, out, `"error":"dial tcp: refused"`)
}

func TestJSONLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", AppEnv: "production"}, &buf)

	logger.Debug("hidden")
	logger.Info("starting http server", slog.String("addr", ":3000"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"starting http server"`)
}

func TestPrettyLoggerGroupsOnlyLaterAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "pretty"}, &buf).
		With(slog.String("component", "http")).
		WithGroup("request").
		With(slog.String("id", "abc")).
		WithGroup("user")

	logger.Info("signed in", slog.String("email", "ann@example.com"))

	out := buf.String()
	assert.Contains(t, out, `"component":"http"`)
	assert.Contains(t, out, `"request.id":"abc"`)
	assert.Contains(t, out, `"request.user.email":"ann@example.com"`)
	assert.NotContains(t, out, `"request.component"`)
	assert.NotContains(t, out, `"request.user.id"`)
}
