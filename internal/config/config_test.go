package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CEFRTAG_CONFIG", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.Vocab.Kind)
	assert.Equal(t, "vocabulary.json", cfg.Vocab.Path)
	assert.Equal(t, "../vocabulary.json", cfg.Vocab.FallbackPath)
	assert.Equal(t, 100*time.Millisecond, cfg.Vocab.Debounce)
	assert.False(t, cfg.Tagger.Phrases)
	assert.False(t, cfg.Tagger.TokenOffsets)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cefrtag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vocab:
  kind: bolt
  db_path: /tmp/v.db
tagger:
  phrases: true
server:
  port: 9090
log:
  format: json
`), 0644))
	t.Setenv("CEFRTAG_SERVER_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceBolt, cfg.Vocab.Kind)
	assert.Equal(t, "/tmp/v.db", cfg.Vocab.DBPath)
	assert.Equal(t, "default", cfg.Vocab.Name)
	assert.True(t, cfg.Tagger.Phrases)
	assert.Equal(t, 9191, cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("CEFRTAG_CONFIG", "")
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Vocab.Kind = "s3"
	cfg.Log.Level = "loud"
	cfg.Server.Port = 70000
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vocab.kind")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "server.port")
}
