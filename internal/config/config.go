// Package config loads keystore settings from an optional config file and
// CELERIX_KEYSTORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CELERIX_KEYSTORE_DATA_DIR
// or CELERIX_KEYSTORE_LOG_LEVEL.
const EnvPrefix = "CELERIX_KEYSTORE"

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var ErrMissingPassphrase = errors.New("config: passphrase is required for the file and sqlite backends")

type Config struct {
	Scope      string `mapstructure:"scope" validate:"required"`
	Backend    string `mapstructure:"backend" validate:"oneof=memory file sqlite"`
	DataDir    string `mapstructure:"data_dir"`
	Passphrase string `mapstructure:"passphrase"`
	Codec      string `mapstructure:"codec" validate:"oneof=json cbor"`

	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type PrefsConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory file redis"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// PostgresConfig points at the member table database. An empty URL selects
// the in-memory member client.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Scope:   "com.celerix.keystore",
		Backend: BackendMemory,
		DataDir: "./data",
		Codec:   "json",
		Log:     LogConfig{Level: "info", Format: "text"},
		HTTP:    HTTPConfig{Addr: ":7002"},
		Prefs:   PrefsConfig{Backend: BackendMemory},
	}
}

// Load reads path (if not empty) and the environment on top of Default.
func Load(path string) (Config, error) {
	v := viper.New()

	// 1. Defaults, so AutomaticEnv knows every key
	d := Default()
	v.SetDefault("scope", d.Scope)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("passphrase", "")
	v.SetDefault("codec", d.Codec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("prefs.backend", d.Prefs.Backend)
	v.SetDefault("redis.url", "")
	v.SetDefault("postgres.url", "")

	// 2. Optional config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// 3. Environment: log.level -> CELERIX_KEYSTORE_LOG_LEVEL
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Codec = strings.ToLower(cfg.Codec)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	cfg.Prefs.Backend = strings.ToLower(cfg.Prefs.Backend)
	return cfg, nil
}

var validate = validator.New()

// Validate rejects unknown backends and codecs and settings a backend needs
// but lacks.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: invalid %s %q (%s)", strings.ToLower(f.Namespace()), f.Value(), f.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	switch c.Backend {
	case BackendFile, BackendSQLite:
		if c.Passphrase == "" {
			return ErrMissingPassphrase
		}
		if c.DataDir == "" {
			return fmt.Errorf("config: data_dir is required for the %s backend", c.Backend)
		}
	}
	if c.Prefs.Backend == BackendFile && c.DataDir == "" {
		return errors.New("config: data_dir is required for the file prefs backend")
	}
	if c.Prefs.Backend == BackendRedis && c.Redis.URL == "" {
		return errors.New("config: redis.url is required for the redis prefs backend")
	}
	return nil
}
