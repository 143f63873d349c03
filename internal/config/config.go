package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from YAML first; env vars override, and env-default fills zero fields.
// Log.Level overrides the mode's default level. Content.NoSeed disables loading the
// built-in catalog into an empty Postgres articles table on start.
type Config struct {
	Server struct {
		Port         string        `yaml:"port" env:"PORT"`
		ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	} `yaml:"server"`
	Log struct {
		Mode  string `yaml:"mode" env:"LOG_MODE" env-default:"dev"`
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path" env:"SQLITE_PATH"`
	} `yaml:"sqlite"`
	Content struct {
		Dir    string        `yaml:"dir" env:"CONTENT_DIR"`
		TTL    time.Duration `yaml:"ttl" env:"CONTENT_TTL" env-default:"10m"`
		NoSeed bool          `yaml:"no_seed" env:"CONTENT_NO_SEED"`
	} `yaml:"content"`
	Bookmarks struct {
		// Backend is one of memory, sqlite, redis, postgres. Empty picks the first configured store.
		Backend   string `yaml:"backend" env:"BOOKMARKS_BACKEND"`
		Namespace string `yaml:"namespace" env:"BOOKMARKS_NAMESPACE" env-default:"default"`
	} `yaml:"bookmarks"`
	Quiz struct {
		MountTTL time.Duration `yaml:"mount_ttl" env:"QUIZ_MOUNT_TTL" env-default:"30m"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error; env vars and defaults are used instead.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
