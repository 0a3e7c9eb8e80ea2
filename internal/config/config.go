package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DBDSN            string        `mapstructure:"DB_DSN"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	SettingsCacheTTL time.Duration `mapstructure:"SETTINGS_CACHE_TTL"`
	LogFile          string        `mapstructure:"LOG_FILE"`
	RateLimitPerMin  int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	CookieSecure     bool          `mapstructure:"COOKIE_SECURE"`
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads config.yaml (current dir or ./config) when present, then
// environment variables, which win.
func Load() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "wedsnap.db") // sqlite file in project root
	v.SetDefault("REDIS_ADDR", "")       // empty disables the settings cache
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SETTINGS_CACHE_TTL", "10m")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("RATE_LIMIT_PER_MIN", 60)
	v.SetDefault("COOKIE_SECURE", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("[config] ignoring unreadable config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("[config] decode: %v", err)
	}
	log.Printf("[config] PORT=%s ENV=%s DB_DRIVER=%s DB_DSN=%s REDIS_ADDR=%s LOG_FILE=%s",
		cfg.Port, cfg.Env, cfg.DBDriver, cfg.DBDSN, cfg.RedisAddr, cfg.LogFile)
	return cfg
}
