package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the catalog service.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Mapbox MapboxConfig `mapstructure:"mapbox"`
	Build  BuildConfig  `mapstructure:"build"`
}

type ServerConfig struct {
	Address   string  `mapstructure:"address"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type DataConfig struct {
	Path        string `mapstructure:"path"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PalettePath string `mapstructure:"palette_path"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MapboxConfig struct {
	Token string `mapstructure:"token"`
}

type BuildConfig struct {
	ID string `mapstructure:"id"`
}

// EnvPrefix prefixes every environment override, e.g. GOUNTAIN_SERVER_ADDRESS.
const EnvPrefix = "GOUNTAIN"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("data.path", "data/destinos.json")
	v.SetDefault("data.sqlite_path", "")
	v.SetDefault("data.palette_path", "")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("mapbox.token", "")
	v.SetDefault("build.id", "dev")
}

// Load reads an optional .env file and config file, then applies
// GOUNTAIN_* environment overrides. An empty path searches for
// config.{yaml,toml,json} in ./configs and the working directory; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// MAPBOX_TOKEN is the variable name the front end already deploys with.
	if tok := os.Getenv("MAPBOX_TOKEN"); tok != "" {
		v.SetDefault("mapbox.token", tok)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must be >= 0")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		return errors.New("server.burst must be > 0 when rate limiting")
	}
	if c.Data.Path == "" && c.Data.SQLitePath == "" {
		return errors.New("one of data.path or data.sqlite_path is required")
	}
	return nil
}
