package database

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "file:///srv/club/migrations", sourceURL("/srv/club/migrations"))
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open("host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", PoolConfig{MaxOpenConns: 1})
	assert.ErrorIs(t, err, ErrConnect)
}

// Каждой up миграции соответствует down миграция
func TestMigrationsArePaired(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, f := range files {
		name := filepath.Base(f)
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	keys := func(m map[string]bool) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, keys(ups), keys(downs))
}

func TestInitMigrationDeclaresBackstops(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "btree_gist")
	assert.Contains(t, sql, "CHECK (start_ts < end_ts)")
	assert.Contains(t, sql, "EXCLUDE USING gist")
}
