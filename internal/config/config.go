// Package config loads the Concierge configuration: YAML file, then
// CONCIERGE_* environment variables, decoded onto the defaults.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read by the CLI when --config is not given and the file exists.
const DefaultFile = "concierge.yaml"

// Provider modes and store drivers.
const (
	ProviderMock = "mock"
	StoreMemory  = "memory"
	StoreRedis   = "redis"
)

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Provider ProviderConfig `mapstructure:"provider"`
	Store    StoreConfig    `mapstructure:"store"`
	HTTP     HTTPConfig     `mapstructure:"http"`

	// MaxInputSize caps a chat message in bytes. 0 keeps the built-in default.
	MaxInputSize int `mapstructure:"max_input_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ProviderConfig struct {
	Mode         string        `mapstructure:"mode"`
	SearchDelay  time.Duration `mapstructure:"search_delay"`
	BookingDelay time.Duration `mapstructure:"booking_delay"`
	// Seed makes mock prices reproducible. 0 means random.
	Seed uint64 `mapstructure:"seed"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Redis  RedisConfig `mapstructure:"redis"`

	Encryption EncryptionConfig `mapstructure:"encryption"`
	// Redact masks card numbers and email addresses in stored transcripts.
	Redact bool `mapstructure:"redact"`
}

// EncryptionConfig enables AES-256-GCM encryption of stored sessions.
// Keys are base64 encoded 32-byte values.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether a key is set.
func (c EncryptionConfig) Enabled() bool {
	return c.Key != ""
}

// Keys decodes the active and fallback keys.
func (c EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey(c.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	for i, k := range c.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock serializes turns across replicas sharing the store.
	Lock bool `mapstructure:"lock"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: string(logging.FormatText)},
		Provider: ProviderConfig{
			Mode:         ProviderMock,
			SearchDelay:  time.Second,
			BookingDelay: 1500 * time.Millisecond,
		},
		Store: StoreConfig{
			Driver: StoreMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "concierge:session:",
				TTL:    30 * time.Minute,
			},
		},
		HTTP: HTTPConfig{
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigin:   "*",
		},
	}
}

// envKeys maps environment variables to configuration keys.
var envKeys = map[string]string{
	"CONCIERGE_LOG_LEVEL":              "log.level",
	"CONCIERGE_LOG_FORMAT":             "log.format",
	"CONCIERGE_PROVIDER_MODE":          "provider.mode",
	"CONCIERGE_PROVIDER_SEARCH_DELAY":  "provider.search_delay",
	"CONCIERGE_PROVIDER_BOOKING_DELAY": "provider.booking_delay",
	"CONCIERGE_PROVIDER_SEED":          "provider.seed",
	"CONCIERGE_STORE_DRIVER":           "store.driver",
	"CONCIERGE_STORE_ENCRYPTION_KEY":   "store.encryption.key",
	"CONCIERGE_STORE_REDACT":           "store.redact",
	"CONCIERGE_REDIS_ADDR":             "store.redis.addr",
	"CONCIERGE_REDIS_PASSWORD":         "store.redis.password",
	"CONCIERGE_REDIS_DB":               "store.redis.db",
	"CONCIERGE_REDIS_PREFIX":           "store.redis.prefix",
	"CONCIERGE_REDIS_TTL":              "store.redis.ttl",
	"CONCIERGE_REDIS_LOCK":             "store.redis.lock",
	"CONCIERGE_HTTP_PORT":              "http.port",
	"CONCIERGE_HTTP_SHUTDOWN_TIMEOUT":  "http.shutdown_timeout",
	"CONCIERGE_HTTP_ALLOWED_ORIGIN":    "http.allowed_origin",
	"CONCIERGE_MAX_INPUT_SIZE":         "max_input_size",
}

// Load reads the YAML file at path (skipped when path is empty), applies the
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for env, key := range envKeys {
		if val, ok := os.LookupEnv(env); ok {
			setPath(raw, key, val)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setPath stores val under a dotted key, creating nested maps as needed.
func setPath(m map[string]any, key string, val any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: want text or json", c.Log.Format))
	}

	if c.Provider.Mode != ProviderMock {
		errs = append(errs, fmt.Errorf("unsupported provider mode %q: only %q is available", c.Provider.Mode, ProviderMock))
	}
	if c.Provider.SearchDelay < 0 || c.Provider.BookingDelay < 0 {
		errs = append(errs, errors.New("provider delays must not be negative"))
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required with the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			errs = append(errs, err)
		}
	} else if len(c.Store.Encryption.FallbackKeys) > 0 {
		errs = append(errs, errors.New("store.encryption.fallback_keys needs store.encryption.key"))
	}

	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.HTTP.Port))
	}
	if c.MaxInputSize < 0 {
		errs = append(errs, errors.New("max_input_size must not be negative"))
	}

	return errors.Join(errs...)
}
