package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileThenEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9000"
jwt:
  secret: from-file
storage:
  driver: local
  public_base_url: http://cdn.example.com/uploads
rate_limit:
  rps: 1.5
`)

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("MEDIA_CLEANUP_BATCH_SIZE", "7")
	t.Setenv("JWT_COOKIE_SECURE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.True(t, cfg.JWT.CookieSecure)
	assert.Equal(t, 7, cfg.MediaCleanup.BatchSize)
	assert.Equal(t, 1.5, cfg.RateLimit.RPS)
	assert.Equal(t, "720h", cfg.JWT.SessionExpiration)
	assert.Equal(t, "local", cfg.Storage.Driver)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "local")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "admin_session", cfg.JWT.CookieName)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing jwt secret",
			body: "storage:\n  driver: local\n",
		},
		{
			name: "ftp without host",
			body: "jwt:\n  secret: x\nstorage:\n  driver: ftp\n",
		},
		{
			name: "unknown driver",
			body: "jwt:\n  secret: x\nstorage:\n  driver: s3\n",
		},
		{
			name: "bad session expiration",
			body: "jwt:\n  secret: x\n  session_expiration: soon\nstorage:\n  driver: local\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_BadEnvValue(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	cfg.CORS.AllowedOrigins = "https://club.example.com, http://localhost:3000,,"

	assert.Equal(t, []string{"https://club.example.com", "http://localhost:3000"}, cfg.AllowedOrigins())
}

func TestTrustedProxies(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.TrustedProxies())

	cfg.Server.TrustedProxies = "10.0.0.0/8, 127.0.0.1"
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies())
}
