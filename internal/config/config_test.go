package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnvironment(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.ReplyDelay)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "fixtures", cfg.Catalog.Source)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("AGENT_REPLY_DELAY", "250ms")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CATALOG_SOURCE", "mongo")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Session.ReplyDelay)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "mongo", cfg.Catalog.Source)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "http:\n  port: \"9090\"\nsession:\n  reply_delay: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.Session.ReplyDelay)
}

func TestLoad_MissingFileFallsBackToEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.HTTP.Port)
}

func TestLoad_RejectsUnknownCatalogSource(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "postgres")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrUnknownCatalogSource)
}
