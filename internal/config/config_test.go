package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allEnvVars lists every variable Load reads; they are cleared between tests.
var allEnvVars = []string{
	"IDEAS_API_URL", "IDEAS_ADMIN_API_URL", "IDEAS_TIMEOUT", "IDEAS_RATE_LIMIT",
	"IDEAS_RATE_BURST", "IDEAS_CACHE_TTL", "IDEAS_NATS_URL", "IDEAS_STATE_DIR",
	"IDEAS_RESET_DELAY", "IDEAS_LOG_LEVEL", "IDEAS_PLACEHOLDER_SCORES",
	"IDEAS_S3_BUCKET", "IDEAS_S3_REGION", "IDEAS_S3_ENDPOINT", "IDEAS_S3_PREFIX",
}

// isolate points HOME and the working directory at empty temp dirs so no
// real config or .env file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", c.APIURL)
	assert.Equal(t, c.APIURL, c.AdminAPIURL, "admin URL defaults to API URL")
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, 10.0, c.RateLimit)
	assert.Equal(t, 5, c.RateBurst)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 3*time.Second, c.ResetDelay)
	assert.True(t, c.PlaceholderScores)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, filepath.Join(home, ".local", "state", "ideas"), c.StateDir)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "ideas", c.S3Prefix)
	assert.Empty(t, c.NATSURL)
	assert.Empty(t, c.File)
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "CustomValues",
			env: map[string]string{
				"IDEAS_API_URL":            "https://ideas.example.com/api",
				"IDEAS_ADMIN_API_URL":      "https://admin.example.com/api",
				"IDEAS_TIMEOUT":            "30s",
				"IDEAS_NATS_URL":           "nats://localhost:4222",
				"IDEAS_PLACEHOLDER_SCORES": "false",
				"IDEAS_RATE_LIMIT":         "2.5",
				"IDEAS_LOG_LEVEL":          "debug",
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://ideas.example.com/api", c.APIURL)
				assert.Equal(t, "https://admin.example.com/api", c.AdminAPIURL)
				assert.Equal(t, 30*time.Second, c.Timeout)
				assert.Equal(t, "nats://localhost:4222", c.NATSURL)
				assert.False(t, c.PlaceholderScores)
				assert.Equal(t, 2.5, c.RateLimit)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{
			name:  "CacheDisabled",
			env:   map[string]string{"IDEAS_CACHE_TTL": "0s"},
			check: func(t *testing.T, c *Config) { assert.Zero(t, c.CacheTTL) },
		},
		{name: "InvalidTimeout", env: map[string]string{"IDEAS_TIMEOUT": "soon"}, wantErr: true},
		{name: "NegativeResetDelay", env: map[string]string{"IDEAS_RESET_DELAY": "-1s"}, wantErr: true},
		{name: "NotHTTPURL", env: map[string]string{"IDEAS_API_URL": "localhost:8080"}, wantErr: true},
		{name: "BadLogLevel", env: map[string]string{"IDEAS_LOG_LEVEL": "loud"}, wantErr: true},
		{name: "ZeroBurst", env: map[string]string{"IDEAS_RATE_BURST": "0"}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			c, err := Load()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "ideas")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	yaml := "api_url: https://file.example.com/api\nreset_delay: 1s\ns3_bucket: idea-exports\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	// Environment beats the file.
	t.Setenv("IDEAS_S3_BUCKET", "from-env")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com/api", c.APIURL)
	assert.Equal(t, time.Second, c.ResetDelay)
	assert.Equal(t, "from-env", c.S3Bucket)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), c.File)
}

func TestLoadFile_ExplicitMissing(t *testing.T) {
	home := isolate(t)
	_, err := LoadFile(filepath.Join(home, "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("IDEAS_NATS_URL=nats://dotenv:4222\n"), 0o600))
	// godotenv sets process variables; register cleanup through t.Setenv.
	t.Setenv("IDEAS_NATS_URL", "")
	require.NoError(t, os.Unsetenv("IDEAS_NATS_URL"))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "nats://dotenv:4222", c.NATSURL)
}
