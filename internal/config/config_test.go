package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[omdb]
api_key = "test-key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8686, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/movieflix.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, time.Hour, cfg.Cache.PruneInterval())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, 10000, cfg.Export.MaxRecords)
}

func TestLoad_Explicit(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9090
log_level = "debug"
admin_key = "secret"

[database]
path = "/tmp/test.db"

[omdb]
api_key = "abc123"
base_url = "http://omdb.example.com"

[cache]
ttl_hours = 6
enabled = false

[pagination]
default_limit = 10
max_limit = 50

[export]
max_records = 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.AdminKey)
	assert.Equal(t, "abc123", cfg.OMDb.APIKey)
	assert.Equal(t, "http://omdb.example.com", cfg.OMDb.BaseURL)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL())
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, 500, cfg.Export.MaxRecords)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_OMDB_KEY", "from-env")

	path := writeConfig(t, `
[omdb]
api_key = "${TEST_OMDB_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OMDb.APIKey)
}

func TestLoad_EnvSubstitution_Missing(t *testing.T) {
	path := writeConfig(t, `
[omdb]
api_key = "${DOES_NOT_EXIST_XYZ}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	// Unknown variables are left untouched
	assert.Equal(t, "${DOES_NOT_EXIST_XYZ}", cfg.OMDb.APIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8686
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "omdb.api_key")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	require.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `this is not toml [[[`)
	_, err := Load(path)
	require.Error(t, err)
}
