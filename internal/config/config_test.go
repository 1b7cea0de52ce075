package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterhub/counterhub/internal/config"
	"github.com/counterhub/counterhub/internal/keys"
)

// core/config.Load caches the parsed struct per type for the lifetime of
// the process, so only the very first call in this test binary actually
// reads the environment; every later call replays that cached value. This
// is the one test allowed to call config.Load, exercising the zero-value
// coercion rules documented for SAVE_INTERVAL and MAX_BODY_SIZE together
// with a full set of overrides. Everything else here targets pure methods
// and the extracted validation helper, which don't go through the cache.
func TestLoad_CoercesZeroIntervalsAndAppliesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DOMAIN", "example.com")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("SAVE_INTERVAL", "0")
	t.Setenv("MAX_BODY_SIZE", "0")
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("KEY_POLICY", "hashed")
	t.Setenv("PATH_STYLE", "host_path")

	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", c.Env)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "s3cret", c.AdminToken)
	assert.Equal(t, 30, c.SaveIntervalSeconds)
	assert.Equal(t, int64(100<<20), c.MaxBodySizeBytes)
	assert.Equal(t, "test.db", c.DBPath)
	assert.Equal(t, keys.PolicyHashed, c.KeyDeriverPolicy())
	assert.Equal(t, keys.PathStyleHostPath, c.KeyDeriverPathStyle())
	assert.True(t, c.IsProduction())
	assert.False(t, c.IsDevAuth())
}

func TestConfig_IsProduction(t *testing.T) {
	t.Parallel()

	prod := &config.Config{Env: "production"}
	assert.True(t, prod.IsProduction())

	dev := &config.Config{Env: "development"}
	assert.False(t, dev.IsProduction())
}

func TestConfig_IsDevAuth(t *testing.T) {
	t.Parallel()

	assert.True(t, (&config.Config{AdminToken: ""}).IsDevAuth())
	assert.False(t, (&config.Config{AdminToken: "x"}).IsDevAuth())
}

func TestConfig_KeyDeriverPolicyAndPathStyle(t *testing.T) {
	t.Parallel()

	c := &config.Config{KeyPolicy: "plaintext", PathStyle: "path"}
	assert.Equal(t, keys.PolicyPlaintext, c.KeyDeriverPolicy())
	assert.Equal(t, keys.PathStylePath, c.KeyDeriverPathStyle())
}
