package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": "4000", "session_ttl": "30m", "grpc_enabled": true}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=5000\nSESSION_DRIVER=\"redis\"\n# comment\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")) })

	assert.Equal(t, "5000", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "redis", get("SESSION_DRIVER", ""))
	assert.Equal(t, "30m", get("SESSION_TTL", ""))
	assert.Equal(t, "true", get("GRPC_ENABLED", ""))

	t.Setenv("APP_PORT", "6000")
	assert.Equal(t, "6000", get("APP_PORT", ""), "process env overrides files")
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")))

	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, "plaintext", get("PASSWORD_HASHER", ""))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("MAX_BODY_BYTES", "not-a-number")
	t.Setenv("DB_DRIVER", "oracle")

	assert.Equal(t, 45*time.Minute, SessionTTL())
	assert.True(t, SessionSecure())
	assert.Equal(t, int64(4<<20), MaxBodyBytes())
	assert.Equal(t, "sqlite", DatabaseDriver(), "unknown drivers fall back to sqlite")
}

func TestDatabaseDSN_DefaultsPerDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())

	t.Setenv("DATABASE_DSN", "postgres://supabase")
	assert.Equal(t, "postgres://supabase", DatabaseDSN())
}

func TestCORSAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://shop.example , ,https://admin.example")
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, CORSAllowedOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Empty(t, CORSAllowedOrigins())
}
