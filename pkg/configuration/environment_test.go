package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "CADFERIAS_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "hrm")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(sub))

	_ = os.Unsetenv("CADFERIAS_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("CADFERIAS_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("CADFERIAS_TEST_ENV_LOAD"))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	n, err := LoadEnv([]string{".env.missing"})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestConfiguration_Validate(t *testing.T) {
	valid := func() *Configuration {
		return &Configuration{
			Backend:     BackendOptions{URL: "http://backend/api/", Timeout: time.Second},
			Lookup:      LookupOptions{Debounce: 500 * time.Millisecond},
			RateLimit:   RateLimitOptions{Storage: "memory", LoginPerMinute: 10},
			PageSize:    10,
			MaxPageSize: 100,
		}
	}

	t.Run("trims backend url", func(t *testing.T) {
		c := valid()
		require.NoError(t, c.validate())
		require.Equal(t, "http://backend/api", c.Backend.URL)
	})

	t.Run("rejects redis storage without url", func(t *testing.T) {
		c := valid()
		c.RateLimit.Storage = "redis"
		require.Error(t, c.validate())
	})

	t.Run("rejects non positive debounce", func(t *testing.T) {
		c := valid()
		c.Lookup.Debounce = 0
		require.Error(t, c.validate())
	})

	t.Run("rejects page size above max", func(t *testing.T) {
		c := valid()
		c.PageSize = 500
		require.Error(t, c.validate())
	})
}

func TestConfiguration_Origins(t *testing.T) {
	c := &Configuration{AllowedOrigins: " http://a.test , ,http://b.test"}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
