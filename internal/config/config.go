// Package config loads client settings from IDEAS_* environment variables, an
// optional YAML config file, and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "IDEAS"

type Config struct {
	APIURL      string        `yaml:"api_url"`       // IDEAS_API_URL (default "http://localhost:8080/api")
	AdminAPIURL string        `yaml:"admin_api_url"` // IDEAS_ADMIN_API_URL (default: APIURL)
	Timeout     time.Duration `yaml:"timeout"`       // IDEAS_TIMEOUT (default 10s)
	RateLimit   float64       `yaml:"rate_limit"`    // IDEAS_RATE_LIMIT requests/s (default 10; 0 = unlimited)
	RateBurst   int           `yaml:"rate_burst"`    // IDEAS_RATE_BURST (default 5)
	CacheTTL    time.Duration `yaml:"cache_ttl"`     // IDEAS_CACHE_TTL (default 5m; 0 = disabled)
	NATSURL     string        `yaml:"nats_url"`      // IDEAS_NATS_URL (optional, empty = no events)
	StateDir    string        `yaml:"state_dir"`     // IDEAS_STATE_DIR (default ~/.local/state/ideas)
	ResetDelay  time.Duration `yaml:"reset_delay"`   // IDEAS_RESET_DELAY (default 3s)
	LogLevel    string        `yaml:"log_level"`     // IDEAS_LOG_LEVEL (default "info")

	// PlaceholderScores fills missing catalog scores with generated values.
	PlaceholderScores bool `yaml:"placeholder_scores"` // IDEAS_PLACEHOLDER_SCORES (default true)

	// Export settings
	S3Bucket   string `yaml:"s3_bucket"`   // IDEAS_S3_BUCKET (enables S3 when set)
	S3Region   string `yaml:"s3_region"`   // IDEAS_S3_REGION (default "us-east-1")
	S3Endpoint string `yaml:"s3_endpoint"` // IDEAS_S3_ENDPOINT (custom endpoint for MinIO)
	S3Prefix   string `yaml:"s3_prefix"`   // IDEAS_S3_PREFIX (default "ideas")

	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("admin_api_url", "")
	v.SetDefault("timeout", "10s")
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("nats_url", "")
	v.SetDefault("state_dir", filepath.Join(home, ".local", "state", "ideas"))
	v.SetDefault("reset_delay", "3s")
	v.SetDefault("placeholder_scores", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_prefix", "ideas")
}

// DefaultConfigFile returns ~/.config/ideas/config.yaml.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ideas", "config.yaml"), nil
}

// Load reads the configuration with the default config file location.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads the configuration. When path is empty the default config
// file is used if it exists; an explicit path must exist. Environment
// variables override the file, and a .env file in the working directory
// fills unset variables.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, home)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "ideas"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	c := &Config{
		APIURL:            v.GetString("api_url"),
		AdminAPIURL:       v.GetString("admin_api_url"),
		RateLimit:         v.GetFloat64("rate_limit"),
		RateBurst:         v.GetInt("rate_burst"),
		NATSURL:           v.GetString("nats_url"),
		StateDir:          v.GetString("state_dir"),
		LogLevel:          v.GetString("log_level"),
		PlaceholderScores: v.GetBool("placeholder_scores"),
		S3Bucket:          v.GetString("s3_bucket"),
		S3Region:          v.GetString("s3_region"),
		S3Endpoint:        v.GetString("s3_endpoint"),
		S3Prefix:          v.GetString("s3_prefix"),
		File:              v.ConfigFileUsed(),
	}
	for key, dst := range map[string]*time.Duration{
		"timeout":     &c.Timeout,
		"cache_ttl":   &c.CacheTTL,
		"reset_delay": &c.ResetDelay,
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%s_%s: must not be negative", EnvPrefix, strings.ToUpper(key))
		}
		*dst = d
	}
	if c.AdminAPIURL == "" {
		c.AdminAPIURL = c.APIURL
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks URL shapes and numeric ranges.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"API_URL": c.APIURL, "ADMIN_API_URL": c.AdminAPIURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s_%s: %q is not an http(s) URL", EnvPrefix, name, raw)
		}
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%s_RATE_LIMIT: must not be negative", EnvPrefix)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%s_RATE_BURST: must be at least 1", EnvPrefix)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s_LOG_LEVEL: unknown level %q", EnvPrefix, c.LogLevel)
	}
	return nil
}
