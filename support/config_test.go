package support

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-store-go/journal"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("uses defaults without a file", func(t *testing.T) {
		cfg, err := LoadConfigFile("")

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("ignores a missing file", func(t *testing.T) {
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, ":9080", cfg.HTTP.Address)
	})

	t.Run("reads yaml over defaults", func(t *testing.T) {
		path := writeConfig(t, `
http:
  address: ":8080"
  rate_limit: 2.5
journal:
  backend: dynamodb
  table: counters
telemetry:
  exporter: honeycomb
  team: abc
`)

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.HTTP.Address)
		assert.Equal(t, 2.5, cfg.HTTP.RateLimit)
		assert.Equal(t, 10, cfg.HTTP.Burst)
		assert.Equal(t, journal.Config{Backend: journal.BackendDynamo, Table: "counters"}, cfg.Journal)
		assert.Equal(t, "honeycomb", cfg.Telemetry.Exporter)
		assert.Equal(t, "abc", cfg.Telemetry.Team)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http:\n  address: \":8080\"\n")
		t.Setenv("WS_HTTP_ADDRESS", ":7070")
		t.Setenv("WS_LOG_PRETTY", "true")
		t.Setenv("WS_JOURNAL_BACKEND", journal.BackendDynamoLocal)

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, ":7070", cfg.HTTP.Address)
		assert.True(t, cfg.Log.Pretty)
		assert.Equal(t, journal.BackendDynamoLocal, cfg.Journal.Backend)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "http: [")

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})

	t.Run("rejects malformed environment values", func(t *testing.T) {
		t.Setenv("WS_HTTP_RATE_LIMIT", "fast")

		_, err := LoadConfigFile("")
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(LogConfig{Level: "warn"}, &out)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestTracerProvider(t *testing.T) {
	t.Run("installs a provider without an exporter", func(t *testing.T) {
		provider, cleanup, err := TracerProvider(context.Background(), DefaultConfig())
		require.NoError(t, err)
		defer cleanup()

		assert.NotNil(t, provider)
	})

	t.Run("rejects unknown exporters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Telemetry.Exporter = "carrier-pigeon"

		_, _, err := TracerProvider(context.Background(), cfg)
		assert.Error(t, err)
	})
}
