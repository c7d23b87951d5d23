// Package config loads service settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// Auth modes.
const (
	AuthModeMock   = "mock"
	AuthModeRemote = "remote"
)

// Config holds the service settings.
type Config struct {
	Addr             string        `yaml:"addr"`
	TLSCert          string        `yaml:"tls_cert"`
	TLSKey           string        `yaml:"tls_key"`
	DatabaseURL      string        `yaml:"database_url"`
	RedisAddr        string        `yaml:"redis_addr"`
	OTELHost         string        `yaml:"otel_host"`
	TraceProbability float64       `yaml:"trace_probability"`
	UserAPIURL       string        `yaml:"user_api_url"`
	AuthMode         string        `yaml:"auth_mode"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	LogLevel         string        `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:             ":8443",
		TraceProbability: 1.0,
		AuthMode:         AuthModeMock,
		SessionTTL:       time.Hour,
		CORSOrigins:      []string{"*"},
		LogLevel:         "info",
	}
}

// Load reads the file named by POSFLOW_CONFIG, if any, and applies
// environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("POSFLOW_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse config file")
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthModeMock:
	case AuthModeRemote:
		if c.UserAPIURL == "" {
			return errors.New("auth_mode remote requires user_api_url")
		}
	default:
		return errors.Errorf("unknown auth_mode %q", c.AuthMode)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Addr = getenvDefault("ADDR", c.Addr)
	c.TLSCert = getenvDefault("TLS_CERT", c.TLSCert)
	c.TLSKey = getenvDefault("TLS_KEY", c.TLSKey)
	c.DatabaseURL = getenvDefault("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = getenvDefault("REDIS_ADDR", c.RedisAddr)
	c.OTELHost = getenvDefault("OTEL_HOST", c.OTELHost)
	c.UserAPIURL = getenvDefault("USER_API_URL", c.UserAPIURL)
	c.AuthMode = getenvDefault("AUTH_MODE", c.AuthMode)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("TRACE_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "parse TRACE_PROBABILITY")
		}
		c.TraceProbability = p
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parse SESSION_TTL")
		}
		c.SessionTTL = d
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
