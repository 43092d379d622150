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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearPGEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PGHOST", "PGPORT", "PGDATABASE", "PGUSER", "PGPASSWORD"} {
		t.Setenv(key, "")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, `
[database]
user = "club"
dbname = "club"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultHTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, defaultDBHost, cfg.Database.Host)
	assert.Equal(t, defaultDBPort, cfg.Database.Port)
	assert.Equal(t, defaultMetricsPath, cfg.Metrics.Path)
	assert.Equal(t, 2*time.Second, cfg.Engine.LockTimeout())
	assert.Equal(t, defaultMigrationsPath, cfg.Migrations.Path)
}

func TestLoad_FileValues(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
port = 6432
user = "club"
password = "secret"
dbname = "club"

[engine]
lock_timeout_ms = 250

[rate_limit]
enabled = true
rps = 5
burst = 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.LockTimeout())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS)
	assert.Equal(t, "host=db port=6432 user=club password=secret dbname=club sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "postgres://club:secret@db:6432/club?sslmode=disable", cfg.Database.URL())
}

func TestLoad_EnvOverridesDatabase(t *testing.T) {
	clearPGEnv(t)
	t.Setenv("PGHOST", "pg.internal")
	t.Setenv("PGPORT", "5433")
	t.Setenv("PGUSER", "svc")
	path := writeConfig(t, `
[database]
user = "club"
dbname = "club"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "svc", cfg.Database.User)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "malformed toml",
			content: "[server\nhttp_port = 1",
			wantErr: ErrReadConfig,
		},
		{
			name:    "missing dbname",
			content: "[database]\nuser = \"club\"",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "bad port",
			content: "[server]\nhttp_port = 70000\n[database]\nuser = \"club\"\ndbname = \"club\"",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative lock timeout",
			content: "[engine]\nlock_timeout_ms = -1\n[database]\nuser = \"club\"\ndbname = \"club\"",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "non numeric PGPORT",
			content: "[database]\nuser = \"club\"\ndbname = \"club\"",
			env:     map[string]string{"PGPORT": "abc"},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPGEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
