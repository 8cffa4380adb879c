// Package config loads the parameters of a contract test run from defaults, an optional YAML
// file, BOOKING_* environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BOOKING"

// Keys of the configuration values. Command-line flags use the same names.
const (
	KeyURL            = "url"
	KeyUsername       = "username"
	KeyPassword       = "password"
	KeySession        = "session"
	KeyTimeout        = "timeout"
	KeyStartupTimeout = "startup-timeout"
	KeyNonexistentID  = "nonexistent-id"
	KeyReport         = "report"
)

var keys = []string{
	KeyURL, KeyUsername, KeyPassword, KeySession,
	KeyTimeout, KeyStartupTimeout, KeyNonexistentID, KeyReport,
}

// Config holds the parameters of a test run.
type Config struct {
	// URL is the base URL of the booking service under test.
	URL            string        `mapstructure:"url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Session        string        `mapstructure:"session"`
	Timeout        time.Duration `mapstructure:"timeout"`
	StartupTimeout time.Duration `mapstructure:"startup-timeout"`
	// NonexistentID of zero means the tests find a nonexistent id by themselves.
	NonexistentID int `mapstructure:"nonexistent-id"`
	// Report is the path of the YAML report file. No report is written if it is empty.
	Report string `mapstructure:"report"`
}

// DefaultConfig returns the values used when nothing else is specified.
func DefaultConfig() *Config {
	return &Config{
		Username:       "admin",
		Password:       "password123",
		Session:        "per-run",
		Timeout:        10 * time.Second,
		StartupTimeout: 10 * time.Second,
	}
}

// Load reads the configuration. configPath may be empty, in which case only defaults,
// environment and flags are used. Flags that were not set on the command line do not override
// anything; flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range keys {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault(KeyURL, defaults.URL)
	v.SetDefault(KeyUsername, defaults.Username)
	v.SetDefault(KeyPassword, defaults.Password)
	v.SetDefault(KeySession, defaults.Session)
	v.SetDefault(KeyTimeout, defaults.Timeout)
	v.SetDefault(KeyStartupTimeout, defaults.StartupTimeout)
	v.SetDefault(KeyNonexistentID, defaults.NonexistentID)
	v.SetDefault(KeyReport, defaults.Report)
}

// Validate checks the values that can be checked without contacting the service.
func (c *Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("url is required"))
	} else if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("url %q is not an absolute URL", c.URL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.StartupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("startup-timeout must be positive, got %s", c.StartupTimeout))
	}
	if c.NonexistentID < 0 {
		errs = append(errs, fmt.Errorf("nonexistent-id must not be negative, got %d", c.NonexistentID))
	}
	return errors.Join(errs...)
}
