package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ReturnsConfigError(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BASE_CURRENCY_NAME", "Som")

	err := run(discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ReturnsDatabaseError(t *testing.T) {
	t.Setenv("IS_PRODUCTION", "false")
	t.Setenv("PGSQL_URL", "")
	t.Setenv("BASE_CURRENCY_NAME", "Som")

	err := run(discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize database pool")
}
