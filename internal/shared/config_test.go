package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DB_DRIVER", "DB_DSN", "CACHE_TTL", "INGEST_WORKERS", "FEED_URL", "REDIS_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, "https://zoho.nordstern.ae/property_finder.xml", c.FeedURL)
	assert.Equal(t, 5*time.Minute, c.ImportTimeout)
	assert.Empty(t, c.RedisAddr)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "INGEST_WORKERS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite\nDB_DSN=file:dev.db\nINGEST_WORKERS=3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("DB_DSN")
		os.Unsetenv("INGEST_WORKERS")
	})
	t.Setenv("APP_ENV", "dev")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "file:dev.db", c.DBDSN)
	assert.Equal(t, 3, c.Workers)
	assert.True(t, c.IsDev())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load(filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_TTL", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)
}
